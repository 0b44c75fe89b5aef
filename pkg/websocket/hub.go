package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"yelocar/pkg/logger"
)

// SnapshotFunc computes the current full snapshot of a topic.
type SnapshotFunc func(ctx context.Context, topic string) (interface{}, error)

// Hub fans topic snapshots out to subscribed clients. A client receives the
// current snapshot when it subscribes and a fresh one after every Publish.
// Snapshots of one topic are built and sent one at a time, so the last
// frame a client gets is never older than the last write.
type Hub struct {
	mu         sync.Mutex
	clients    map[*Client]struct{}
	topics     map[string]map[*Client]struct{}
	allowed    map[string]bool
	topicLocks map[string]*sync.Mutex
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	snapshot   SnapshotFunc
	logger     *logger.Logger
}

type Message struct {
	Type      string      `json:"type"`
	Topic     string      `json:"topic,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// Message types.
const (
	TypeWelcome     = "welcome"
	TypeSnapshot    = "snapshot"
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypeError       = "error"
)

func NewHub(topics []string, snapshot SnapshotFunc, log *logger.Logger) *Hub {
	allowed := make(map[string]bool, len(topics))
	topicLocks := make(map[string]*sync.Mutex, len(topics))
	for _, t := range topics {
		allowed[t] = true
		topicLocks[t] = &sync.Mutex{}
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
		allowed:    allowed,
		topicLocks: topicLocks,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		snapshot:   snapshot,
		logger:     log,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.drop(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register hands a new connection to the hub. It reports false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.WithUserID(client.UserID).Debug("Live client connected")
	h.sendTo(client, Message{
		Type:      TypeWelcome,
		Timestamp: now(),
		Data:      h.topicList(),
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		h.drop(client)
	}
	h.mu.Unlock()

	if ok {
		h.logger.WithUserID(client.UserID).Debug("Live client disconnected")
	}
}

// drop removes client from every topic and closes its queue. h.mu must be
// held.
func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for topic, subs := range h.topics {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	close(client.send)
}

// Subscribe adds client to topic and pushes the current snapshot to it.
func (h *Hub) Subscribe(ctx context.Context, client *Client, topic string) {
	if !h.allowed[topic] {
		h.sendTo(client, Message{Type: TypeError, Topic: topic, Timestamp: now(), Error: "unknown topic"})
		return
	}

	lock := h.topicLocks[topic]
	lock.Lock()
	defer lock.Unlock()

	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*Client]struct{})
	}
	h.topics[topic][client] = struct{}{}
	h.mu.Unlock()

	h.sendTo(client, h.build(ctx, topic))
}

func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if subs, ok := h.topics[topic]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

// Publish recomputes topic and sends it to every subscriber. Nothing is
// computed when nobody is listening. The rebuild outlives ctx cancellation,
// since a caller that goes away has still changed the data.
func (h *Hub) Publish(ctx context.Context, topic string) {
	lock, ok := h.topicLocks[topic]
	if !ok || h.Subscribers(topic) == 0 {
		return
	}

	lock.Lock()
	defer lock.Unlock()
	h.broadcast(topic, h.build(context.WithoutCancel(ctx), topic))
}

func (h *Hub) broadcast(topic string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).WithField("topic", topic).Error("Failed to encode live snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.topics[topic] {
		select {
		case client.send <- data:
		default:
			h.logger.WithUserID(client.UserID).Warn("Live client too slow, disconnecting")
			h.drop(client)
		}
	}
}

func (h *Hub) build(ctx context.Context, topic string) Message {
	msg := Message{Type: TypeSnapshot, Topic: topic, Timestamp: now()}
	if h.snapshot == nil {
		return msg
	}
	data, err := h.snapshot(ctx, topic)
	if err != nil {
		h.logger.WithError(err).WithField("topic", topic).Warn("Failed to build live snapshot")
		msg.Error = "snapshot unavailable"
		return msg
	}
	msg.Data = data
	return msg
}

func (h *Hub) sendTo(client *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		h.drop(client)
	}
}

func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) topicList() []string {
	out := make([]string, 0, len(h.allowed))
	for t := range h.allowed {
		out = append(out, t)
	}
	return out
}

func now() int64 {
	return time.Now().Unix()
}

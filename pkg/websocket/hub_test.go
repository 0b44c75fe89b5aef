package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"yelocar/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T, snapshot SnapshotFunc) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub([]string{"bookings", "interactions"}, snapshot, logger.Discard())
	go hub.Run(ctx)

	handler := NewHandler(ctx, hub, []string{"*"})
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("user_id", "admin-1")
		handler.HandleWebSocket(c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad message %s: %v", data, err)
	}
	return msg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubSubscribePublishAndDisconnect(t *testing.T) {
	var version int64
	hub, url := newTestServer(t, func(ctx context.Context, topic string) (interface{}, error) {
		return map[string]interface{}{"topic": topic, "version": atomic.AddInt64(&version, 1)}, nil
	})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}

	if msg := readMessage(t, conn); msg.Type != TypeWelcome {
		t.Fatalf("first message type = %q, want welcome", msg.Type)
	}

	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "topic": "bookings"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	initial := readMessage(t, conn)
	if initial.Type != TypeSnapshot || initial.Topic != "bookings" {
		t.Fatalf("initial snapshot = %+v", initial)
	}

	waitFor(t, func() bool { return hub.Subscribers("bookings") == 1 })
	hub.Publish(context.Background(), "bookings")
	update := readMessage(t, conn)
	data, _ := update.Data.(map[string]interface{})
	if update.Type != TypeSnapshot || data["version"] != float64(2) {
		t.Fatalf("update = %+v", update)
	}

	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 && hub.Subscribers("bookings") == 0 })
}

func TestHubRejectsUnknownTopic(t *testing.T) {
	hub, url := newTestServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	readMessage(t, conn)

	_ = conn.WriteJSON(map[string]string{"type": "subscribe", "topic": "payments"})
	if msg := readMessage(t, conn); msg.Type != TypeError {
		t.Fatalf("message = %+v, want error", msg)
	}
	if hub.Subscribers("payments") != 0 {
		t.Fatalf("unknown topic should not gain subscribers")
	}
}

func TestPublishWithoutSubscribersSkipsSnapshot(t *testing.T) {
	called := false
	hub := NewHub([]string{"bookings"}, func(ctx context.Context, topic string) (interface{}, error) {
		called = true
		return nil, nil
	}, logger.Discard())

	hub.Publish(context.Background(), "bookings")
	if called {
		t.Fatalf("snapshot computed with no subscribers")
	}
}

func subscribe(t *testing.T, url, topic string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	readMessage(t, conn)
	if err := conn.WriteJSON(map[string]string{"type": "subscribe", "topic": topic}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	return conn
}

func TestOverlappingPublishesEndOnNewestSnapshot(t *testing.T) {
	var (
		mu    sync.Mutex
		state = "initial"
		calls int
	)
	entered := make(chan struct{})
	release := make(chan struct{})
	hub, url := newTestServer(t, func(ctx context.Context, topic string) (interface{}, error) {
		mu.Lock()
		v := state
		calls++
		slow := calls == 2
		mu.Unlock()
		if slow {
			close(entered)
			<-release
		}
		return v, nil
	})

	conn := subscribe(t, url, "bookings")
	if msg := readMessage(t, conn); msg.Data != "initial" {
		t.Fatalf("initial snapshot = %+v", msg)
	}
	waitFor(t, func() bool { return hub.Subscribers("bookings") == 1 })

	mu.Lock()
	state = "old"
	mu.Unlock()
	first := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), "bookings")
		close(first)
	}()
	<-entered

	mu.Lock()
	state = "new"
	mu.Unlock()
	second := make(chan struct{})
	go func() {
		hub.Publish(context.Background(), "bookings")
		close(second)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	<-first
	<-second

	var last Message
	for i := 0; i < 2; i++ {
		last = readMessage(t, conn)
	}
	if last.Data != "new" {
		t.Fatalf("final snapshot = %v, want newest", last.Data)
	}
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	hub, url := newTestServer(t, func(ctx context.Context, topic string) (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return "fresh", nil
	})

	conn := subscribe(t, url, "bookings")
	readMessage(t, conn)
	waitFor(t, func() bool { return hub.Subscribers("bookings") == 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Publish(ctx, "bookings")

	if msg := readMessage(t, conn); msg.Error != "" || msg.Data != "fresh" {
		t.Fatalf("snapshot after cancelled request = %+v", msg)
	}
}

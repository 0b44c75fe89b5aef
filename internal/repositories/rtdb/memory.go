package rtdb

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryTree is an in-process Tree with realtime database semantics: nulls
// and empty objects are not stored, and pushed keys sort chronologically.
// It backs local development and tests.
type MemoryTree struct {
	mu   sync.RWMutex
	root map[string]interface{}
	ids  *pushIDs
	// Fail, when set, is returned by every operation.
	Fail error
}

func NewMemoryTree() *MemoryTree {
	return &MemoryTree{root: map[string]interface{}{}, ids: &pushIDs{}}
}

func (m *MemoryTree) Get(ctx context.Context, path string, v interface{}) (bool, error) {
	if m.Fail != nil {
		return false, m.Fail
	}
	m.mu.RLock()
	node, ok := lookup(m.root, splitPath(path))
	var raw []byte
	var err error
	if ok {
		raw, err = json.Marshal(node)
	}
	m.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

func (m *MemoryTree) Set(ctx context.Context, path string, v interface{}) error {
	if m.Fail != nil {
		return m.Fail
	}
	value, err := normalize(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(splitPath(path), value)
	return nil
}

func (m *MemoryTree) Push(ctx context.Context, path string, v interface{}) (string, error) {
	if m.Fail != nil {
		return "", m.Fail
	}
	value, err := normalize(v)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := m.ids.next(time.Now())
	m.put(append(splitPath(path), key), value)
	return key, nil
}

func (m *MemoryTree) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if m.Fail != nil {
		return m.Fail
	}
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		value, err := normalize(v)
		if err != nil {
			return err
		}
		values[k] = value
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	base := splitPath(path)
	for k, v := range values {
		m.put(append(append([]string{}, base...), splitPath(k)...), v)
	}
	return nil
}

func (m *MemoryTree) Delete(ctx context.Context, path string) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(splitPath(path), nil)
	return nil
}

func (m *MemoryTree) LastByChild(ctx context.Context, path, child string, limit int) ([]Node, error) {
	if m.Fail != nil {
		return nil, m.Fail
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, ok := lookup(m.root, splitPath(path))
	if !ok {
		return []Node{}, nil
	}
	children, ok := node.(map[string]interface{})
	if !ok {
		return []Node{}, nil
	}

	type entry struct {
		key   string
		order interface{}
		value interface{}
	}
	entries := make([]entry, 0, len(children))
	for k, v := range children {
		var order interface{}
		if obj, ok := v.(map[string]interface{}); ok {
			order = obj[child]
		}
		entries = append(entries, entry{key: k, order: order, value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if c := compareValues(entries[i].order, entries[j].order); c != 0 {
			return c < 0
		}
		return entries[i].key < entries[j].key
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	out := make([]Node, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e.value)
		if err != nil {
			return nil, err
		}
		out = append(out, Node{Key: e.key, Value: raw})
	}
	return out, nil
}

func (m *MemoryTree) Ping(ctx context.Context) error {
	return m.Fail
}

// put stores value at path, pruning parents that become empty.
func (m *MemoryTree) put(path []string, value interface{}) {
	if len(path) == 0 {
		if obj, ok := value.(map[string]interface{}); ok {
			m.root = obj
		} else {
			m.root = map[string]interface{}{}
		}
		return
	}
	setIn(m.root, path, value)
}

func setIn(node map[string]interface{}, path []string, value interface{}) {
	key := path[0]
	if len(path) == 1 {
		if value == nil {
			delete(node, key)
		} else {
			node[key] = value
		}
		return
	}

	child, ok := node[key].(map[string]interface{})
	if !ok {
		if value == nil {
			return
		}
		child = map[string]interface{}{}
		node[key] = child
	}
	setIn(child, path[1:], value)
	if len(child) == 0 {
		delete(node, key)
	}
}

func lookup(node interface{}, path []string) (interface{}, bool) {
	for _, key := range path {
		obj, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		node, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	if obj, ok := node.(map[string]interface{}); ok && len(obj) == 0 {
		return nil, false
	}
	return node, true
}

func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// normalize converts v to its JSON tree form and drops nulls and empty
// objects, as the hosted database does.
func normalize(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return prune(out), nil
}

func prune(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, child := range t {
			if p := prune(child); p == nil {
				delete(t, k)
			} else {
				t[k] = p
			}
		}
		if len(t) == 0 {
			return nil
		}
		return t
	case []interface{}:
		if len(t) == 0 {
			return nil
		}
		for i := range t {
			t[i] = prune(t[i])
		}
		return t
	default:
		return v
	}
}

// compareValues orders values the way orderByChild does: missing, false,
// true, numbers, strings, objects.
func compareValues(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	case string:
		return strings.Compare(x, b.(string))
	}
	return 0
}

func rank(v interface{}) int {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 2
		}
		return 1
	case float64:
		return 3
	case string:
		return 4
	default:
		return 5
	}
}

const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

// pushIDs generates 20 character keys: 8 characters of millisecond time and
// 12 random characters, incremented when two keys share a millisecond.
type pushIDs struct {
	lastTime int64
	lastRand [12]int
}

func (p *pushIDs) next(now time.Time) string {
	ms := now.UnixMilli()
	if ms == p.lastTime {
		for i := 11; i >= 0; i-- {
			if p.lastRand[i] < 63 {
				p.lastRand[i]++
				break
			}
			p.lastRand[i] = 0
		}
	} else {
		p.lastTime = ms
		var buf [12]byte
		if _, err := rand.Read(buf[:]); err != nil {
			for i := range buf {
				buf[i] = byte(ms >> (i % 8))
			}
		}
		for i, b := range buf {
			p.lastRand[i] = int(b) % 64
		}
	}

	var id [20]byte
	t := ms
	for i := 7; i >= 0; i-- {
		id[i] = pushChars[t%64]
		t /= 64
	}
	for i := 0; i < 12; i++ {
		id[8+i] = pushChars[p.lastRand[i]]
	}
	return string(id[:])
}

package rtdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"yelocar/internal/models"

	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/errorutils"
)

// Tree is the subset of realtime database operations the repositories need.
// Paths are slash separated and relative to the database root.
type Tree interface {
	// Get decodes the value at path into v. found is false when nothing is
	// stored there, in which case v is left untouched.
	Get(ctx context.Context, path string, v interface{}) (found bool, err error)
	Set(ctx context.Context, path string, v interface{}) error
	// Push stores v under a new chronologically ordered key and returns it.
	Push(ctx context.Context, path string, v interface{}) (string, error)
	Update(ctx context.Context, path string, fields map[string]interface{}) error
	Delete(ctx context.Context, path string) error
	// LastByChild returns the last limit children of path ordered by the
	// named child, in ascending order.
	LastByChild(ctx context.Context, path, child string, limit int) ([]Node, error)
	Ping(ctx context.Context) error
}

type Node struct {
	Key   string
	Value json.RawMessage
}

type firebaseTree struct {
	client *db.Client
}

func NewFirebaseTree(client *db.Client) Tree {
	return &firebaseTree{client: client}
}

func (t *firebaseTree) Get(ctx context.Context, path string, v interface{}) (bool, error) {
	var raw json.RawMessage
	if err := t.client.NewRef(path).Get(ctx, &raw); err != nil {
		return false, wrapError("read", path, err)
	}
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return true, nil
}

func (t *firebaseTree) Set(ctx context.Context, path string, v interface{}) error {
	if err := t.client.NewRef(path).Set(ctx, v); err != nil {
		return wrapError("write", path, err)
	}
	return nil
}

func (t *firebaseTree) Push(ctx context.Context, path string, v interface{}) (string, error) {
	ref, err := t.client.NewRef(path).Push(ctx, v)
	if err != nil {
		return "", wrapError("push", path, err)
	}
	return ref.Key, nil
}

func (t *firebaseTree) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := t.client.NewRef(path).Update(ctx, fields); err != nil {
		return wrapError("update", path, err)
	}
	return nil
}

func (t *firebaseTree) Delete(ctx context.Context, path string) error {
	if err := t.client.NewRef(path).Delete(ctx); err != nil {
		return wrapError("delete", path, err)
	}
	return nil
}

func (t *firebaseTree) LastByChild(ctx context.Context, path, child string, limit int) ([]Node, error) {
	q := t.client.NewRef(path).OrderByChild(child)
	if limit > 0 {
		q = q.LimitToLast(limit)
	}
	nodes, err := q.GetOrdered(ctx)
	if err != nil {
		return nil, wrapError("query", path, err)
	}

	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		var raw json.RawMessage
		if err := n.Unmarshal(&raw); err != nil {
			continue
		}
		out = append(out, Node{Key: n.Key(), Value: raw})
	}
	return out, nil
}

func (t *firebaseTree) Ping(ctx context.Context) error {
	var root interface{}
	if err := t.client.NewRef("/").GetShallow(ctx, &root); err != nil {
		return wrapError("ping", "/", err)
	}
	return nil
}

// wrapError classifies SDK and transport failures so handlers can answer
// with 503 or 403 instead of a generic 500.
func wrapError(op, path string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr),
		errorutils.IsUnavailable(err), errorutils.IsDeadlineExceeded(err):
		return fmt.Errorf("%w: %s %s: %v", models.ErrUnavailable, op, path, err)
	case errorutils.IsPermissionDenied(err), errorutils.IsUnauthenticated(err):
		return fmt.Errorf("%w: %s %s: %v", models.ErrForbidden, op, path, err)
	default:
		return fmt.Errorf("failed to %s %s: %w", op, path, err)
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

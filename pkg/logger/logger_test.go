package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func jsonLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	l, err := NewLogger(&Config{Level: DebugLevel, Format: "json", AppName: "yelocar", Version: "test"})
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	var buf bytes.Buffer
	l.SetOutput(&buf)
	return l, &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var got map[string]interface{}
	if err := json.Unmarshal(lines[len(lines)-1], &got); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	return got
}

func TestWithContextAddsRequestFields(t *testing.T) {
	l, buf := jsonLogger(t)

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), "u1")
	l.WithContext(ctx).WithError(errors.New("boom")).Warn("careful")

	got := lastLine(t, buf)
	if got["request_id"] != "req-1" || got["user_id"] != "u1" || got["error"] != "boom" {
		t.Fatalf("fields = %v", got)
	}
	if got["level"] != "warning" || got["message"] != "careful" || got["app"] != "yelocar" {
		t.Fatalf("envelope = %v", got)
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Fatalf("RequestIDFromContext() = %q", RequestIDFromContext(ctx))
	}
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	l, buf := jsonLogger(t)
	l.WithField("scope", "child").Info("one")
	l.Info("two")

	if _, ok := lastLine(t, buf)["scope"]; ok {
		t.Fatalf("parent logger picked up child fields")
	}
}

func TestLogAPIRequestLevel(t *testing.T) {
	l, buf := jsonLogger(t)

	cases := map[int]string{200: "info", 404: "warning", 503: "error"}
	for status, level := range cases {
		l.LogAPIRequest("GET", "/api/v1/cars", status, 12*time.Millisecond, "")
		got := lastLine(t, buf)
		if got["level"] != level || got["status_code"] != float64(status) {
			t.Fatalf("status %d: %v", status, got)
		}
		if _, ok := got["user_id"]; ok {
			t.Fatalf("guest request should not carry user_id")
		}
	}
}

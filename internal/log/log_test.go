package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentWorker, Format: "json", Output: &buf})
	l.Info("hello", "k", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentWorker || rec["msg"] != "hello" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if l.WithComponent(ComponentAMQP).Component() != ComponentAMQP {
		t.Fatalf("WithComponent did not switch component")
	}
}

func TestMiddlewareAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Format: "json", Output: &buf})

	var seen *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/insights?owner=1", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("request id not echoed: %q", rr.Header().Get(RequestIDHeader))
	}
	if seen == nil || seen.Component() == "unknown" {
		t.Fatalf("handler did not receive the request logger")
	}
	out := buf.String()
	if !strings.Contains(out, `"request_id":"abc-123"`) || !strings.Contains(out, `"status_code":418`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if !strings.Contains(out, `"client_ip":"192.0.2.1"`) {
		t.Fatalf("client ip missing: %s", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Fatalf("4xx should log at warn: %s", out)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected a generated request id")
	}
}

func TestStructuredLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: "json", Output: &buf}))

	sl.LogInsights(context.Background(), 7, core.MonthPeriod(2025, 1), 3)
	sl.LogError(context.Background(), "publish failed", errors.New("boom"), ComponentAMQP, OpPublish, nil)

	out := buf.String()
	for _, want := range []string{`"owner_id":7`, `"period_start":"2025-01-01"`, `"insight_count":3`, `"error":"boom"`, `"operation":"publish"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestFromContextDefault(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: "debug", Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithHospitalID(ctx, "hosp-1")

	log.Error(ctx, "inventory.bed.persist_failed", errors.New("boom"))

	for _, field := range []string{`"request_id":"req-123"`, `"hospital_id":"hosp-1"`, `"stack"`, `"error":"boom"`} {
		if !bytes.Contains(buf.Bytes(), []byte(field)) {
			t.Fatalf("expected %s in entry=%s", field, buf.String())
		}
	}
}

func TestLoggerWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, WarnStack: true})
	log.Warn(context.Background(), "escalation.queue_full")
	if !bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("expected stack when warn stack enabled; entry=%s", buf.String())
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "test", Output: buf})
	quiet.Warn(context.Background(), "escalation.queue_full")
	if bytes.Contains(buf.Bytes(), []byte(`"stack"`)) {
		t.Fatalf("did not expect stack; entry=%s", buf.String())
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf})
	log.Debug(context.Background(), "realtime.emit")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be suppressed, got %s", buf.String())
	}
	log.Info(context.Background(), "realtime.join")
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"info"`)) {
		t.Fatalf("expected info entry at default level, got %s", buf.String())
	}

	buf.Reset()
	warnOnly := New(Options{ServiceName: "test", Level: "warn", Output: buf})
	warnOnly.Info(context.Background(), "realtime.join")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be suppressed at warn, got %s", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("invalid"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid level should fallback to info, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", lvl)
	}
}

func TestFieldsStackOnContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: FormatJSON})

	base := log.WithCity(context.Background(), "Pune")
	child := log.WithFields(base, map[string]any{"event": "bed_updated", "delivered": 3})
	log.Info(child, "realtime.emit")
	for _, field := range []string{`"city":"Pune"`, `"event":"bed_updated"`, `"delivered":3`, `"service":"test"`} {
		if !bytes.Contains(buf.Bytes(), []byte(field)) {
			t.Fatalf("expected %s in entry=%s", field, buf.String())
		}
	}

	buf.Reset()
	log.Info(base, "realtime.join")
	if bytes.Contains(buf.Bytes(), []byte(`"event"`)) {
		t.Fatalf("child fields leaked into parent context: %s", buf.String())
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Output: buf, Format: FormatConsole})
	log.Info(context.Background(), "migrate.applied")
	if bytes.HasPrefix(bytes.TrimSpace(buf.Bytes()), []byte("{")) {
		t.Fatalf("expected console output, got %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("migrate.applied")) {
		t.Fatalf("missing message: %s", buf.String())
	}
}

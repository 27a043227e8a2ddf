package logger

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: newLineWriter([]io.Writer{buf}),
		format: formatKV,
	})
	ctx := WithRID(Background(), "42:7:9")
	ctx = WithUpdateMeta(ctx, 42, 9, 7)

	log := slog.New(handler).With("component", "catalog")
	LogEvent(ctx, log, slog.LevelInfo, "catalog.saved",
		slog.String("status", "ok"),
		slog.String("category", "car"),
	)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=catalog", "event=catalog.saved", "status=ok", "rid=42:7:9"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), line)
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: newLineWriter([]io.Writer{buf}),
		format: formatJSON,
	})
	ctx := WithRID(Background(), "11:33:22")

	log := slog.New(handler).With("component", "session")
	LogEvent(ctx, log, slog.LevelError, "session.save",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") {
		t.Fatalf("expected JSON, got %s", line)
	}
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"session"`, `"event":"session.save"`, `"status":"fail"`, `"rid":"11:33:22"`, `"err":"boom"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerDurationNormalization(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelInfo,
		writer: newLineWriter([]io.Writer{buf}),
		format: formatKV,
	})
	log := slog.New(handler)
	log.LogAttrs(Background(), slog.LevelInfo, "timing",
		slog.Duration("duration", 1500000), // 1.5ms
	)
	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "duration_ms=2") {
		t.Fatalf("expected duration_ms=2, got %s", line)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "abc\x00def\x7fghi"
	if got := Sanitize(in); got != "abcdefghi" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("привет мир", 6); got != "привет" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("short", 10); got != "short" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
}

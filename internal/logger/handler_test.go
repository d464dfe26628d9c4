package logger

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestHandler(buf *bytes.Buffer, format logFormat) (*structuredHandler, *asyncWriter) {
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	return h, aw
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	h, aw := newTestHandler(buf, formatKV)
	log := slog.New(h).With("component", "tg")

	LogEvent(Background(), log, slog.LevelInfo, "handler.handled",
		slog.String("status", "ok"),
		slog.Int64("user_id", 42),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	idxComponent := strings.Index(line, "component=tg")
	idxEvent := strings.Index(line, "event=handler.handled")
	idxStatus := strings.Index(line, "status=ok")
	idxUser := strings.Index(line, "user_id=42")
	if idxComponent < 0 || idxEvent < 0 || idxStatus < 0 || idxUser < 0 {
		t.Fatalf("missing fields in line: %s", line)
	}
	if !(idxComponent < idxEvent && idxEvent < idxStatus && idxStatus < idxUser) {
		t.Fatalf("unexpected key order: %s", line)
	}
}

func TestStructuredHandlerJSONContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	h, aw := newTestHandler(buf, formatJSON)
	log := slog.New(h).With("component", "workflow")

	ctx := WithRID(Background(), "7:100:42")
	ctx = WithUpdateMeta(ctx, 7, 42, 100)
	LogEvent(ctx, log, slog.LevelInfo, "status.recorded")

	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	for _, want := range []string{
		`"rid":"7:100:42"`,
		`"update_id":7`,
		`"user_id":42`,
		`"chat_id":100`,
		`"event":"status.recorded"`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %s in output, got %s", want, line)
		}
	}
}

func TestStructuredHandlerDurationNormalized(t *testing.T) {
	buf := &bytes.Buffer{}
	h, aw := newTestHandler(buf, formatKV)
	log := slog.New(h)

	LogEvent(Background(), log, slog.LevelInfo, "db.connect",
		slog.Duration("duration", 1500*time.Microsecond),
	)
	if err := aw.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := aw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "duration_ms=2") {
		t.Fatalf("expected duration_ms=2 in output, got %s", line)
	}
}

func TestSanitizeLimit(t *testing.T) {
	in := "abc\x00def​ghi"
	if got := Sanitize(in); got != "abcdefghi" {
		t.Fatalf("sanitize: got %q", got)
	}
	if got := SanitizeLimit("привет мир", 6); got != "привет" {
		t.Fatalf("limit: got %q", got)
	}
}

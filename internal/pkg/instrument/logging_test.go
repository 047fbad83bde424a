package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &out); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return out
}

func TestLogHandler_MasksAndTags(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, &Config{
		ServiceName: "authotp",
		MaskFields:  []string{"credential", " Token "},
	}, nil))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "login",
		"email", "a@b.c",
		"credential", "pw",
		"body", `{"token":"123456","account_id":"x"}`,
		"nested", map[string]any{"TOKEN": "1", "keep": "2"},
	)

	// Assert
	line := decodeLine(t, &buf)
	if line["credential"] != masked {
		t.Fatalf("credential = %v, want masked", line["credential"])
	}
	if line["email"] != "a@b.c" {
		t.Fatalf("email = %v", line["email"])
	}
	if body, _ := line["body"].(string); !strings.Contains(body, `"token":"***"`) || !strings.Contains(body, `"account_id":"x"`) {
		t.Fatalf("body = %v", line["body"])
	}
	nested, _ := line["nested"].(map[string]any)
	if nested["TOKEN"] != masked || nested["keep"] != "2" {
		t.Fatalf("nested = %v", line["nested"])
	}
	if line["_cID"] != "cid-1" || line["service"] != "authotp" {
		t.Fatalf("context attrs missing: %v", line)
	}
	if _, ok := line["severity"]; !ok {
		t.Fatalf("severity key missing: %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("ts key missing: %v", line)
	}
}

func TestLogHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, &Config{LogLevel: "warn"}, nil))

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("warn should be logged, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCorrelationID(t *testing.T) {
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Fatalf("GetCorrelationID(empty) = %q", got)
	}

	ctx := SetCorrelationID(context.Background(), "abc")
	if got := GetCorrelationID(ctx); got != "abc" {
		t.Fatalf("GetCorrelationID() = %q, want abc", got)
	}
}

func TestNew_DisabledIsNoop(t *testing.T) {
	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := ins.(noop); !ok {
		t.Fatalf("New() = %T, want noop", ins)
	}
	if err := ins.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextLevelsFiltered(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "c=3")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "d=4")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "JSON")

	log.Debug(context.Background(), "hello", "login", "admin")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "admin", rec["login"])
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "text")

	log.With("module", "directory").Info(context.Background(), "user added", "id", 7)

	out := buf.String()
	for _, s := range []string{"level=INFO", `msg="user added"`, "module=directory", "id=7"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	log := Discard()
	ctx := context.TODO()
	log.Info(ctx, "ctx-ok")
	log.Error(ctx, "ctx-ok")
	log.With("k", "v").Warn(ctx, "ctx-ok")
}

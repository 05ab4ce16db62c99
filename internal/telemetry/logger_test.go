package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock handler to inspect log records
type mockHandler struct {
	records []slog.Record
	attrs   []slog.Attr
	group   string
	enabled bool
}

func (h *mockHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.enabled
}

func (h *mockHandler) Handle(ctx context.Context, record slog.Record) error {
	h.records = append(h.records, record)
	return nil
}

func (h *mockHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(h.attrs, attrs...)
	return &next
}

func (h *mockHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.group = name
	return &next
}

func TestMultiHandler(t *testing.T) {
	h1 := &mockHandler{enabled: true}
	h2 := &mockHandler{enabled: true}

	multi := &multiHandler{handlers: []slog.Handler{h1, h2}}

	t.Run("Enabled", func(t *testing.T) {
		assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

		h1.enabled = false
		h2.enabled = false
		assert.False(t, multi.Enabled(context.Background(), slog.LevelInfo))
		h1.enabled = true
		h2.enabled = true
	})

	t.Run("Handle fans out", func(t *testing.T) {
		record := slog.NewRecord(time.Now(), slog.LevelInfo, "test message", 0)
		err := multi.Handle(context.Background(), record)
		assert.NoError(t, err)
		require.Len(t, h1.records, 1)
		require.Len(t, h2.records, 1)
		assert.Equal(t, "test message", h1.records[0].Message)
	})

	t.Run("WithAttrs", func(t *testing.T) {
		attrs := []slog.Attr{slog.String("key", "value")}
		withAttrs, ok := multi.WithAttrs(attrs).(*multiHandler)
		require.True(t, ok, "WithAttrs should return a *multiHandler")

		for _, h := range withAttrs.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, attrs, mockH.attrs)
		}
	})

	t.Run("WithGroup", func(t *testing.T) {
		withGroup, ok := multi.WithGroup("my-group").(*multiHandler)
		require.True(t, ok, "WithGroup should return a *multiHandler")

		for _, h := range withGroup.handlers {
			mockH, ok := h.(*mockHandler)
			require.True(t, ok)
			assert.Equal(t, "my-group", mockH.group)
		}
	})
}

func TestInitLogger(t *testing.T) {
	originalLogger := slog.Default()
	defer slog.SetDefault(originalLogger)

	t.Run("Debug level", func(t *testing.T) {
		InitLogger(true, "")
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

		InitLogger(false, "")
		assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("File logging", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "txlens.log")

		InitLogger(false, logFile)
		slog.Info("file message")

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "file message")
	})

	t.Run("Unwritable file falls back to stderr", func(t *testing.T) {
		InitLogger(false, filepath.Join(t.TempDir(), "missing", "txlens.log"))
		// Only the stderr handler remains; logging must not panic.
		slog.Info("still logs")
	})
}

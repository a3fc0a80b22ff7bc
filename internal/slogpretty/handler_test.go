package slogpretty

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogHandler_Handle(t *testing.T) {
	bufWo := bytes.NewBuffer(nil)
	bufWe := bytes.NewBuffer(nil)

	h := &Handler{
		We:  &lockedWriter{w: bufWe},
		Wo:  &lockedWriter{w: bufWo},
		Lvl: slog.LevelDebug,
		Goa: make([]GroupOrAttrs, 0),
	}

	record := slog.Record{
		Time:    time.Date(2024, 06, 26, 0, 0, 0, 0, time.UTC),
		Message: "inserted pattern",
		Level:   slog.LevelDebug,
	}
	record.Add("vertex", 7)
	record.Add("pattern", 0)
	record.Add("is_new", true)
	record.Add("latency", 2*time.Millisecond)
	record.Add("offset", "3")
	record.Add(slog.Group("split", slog.String("kind", "prefix")))
	require.NoError(t, h.Handle(context.Background(), record))
	record.Level = slog.LevelInfo
	require.NoError(t, h.Handle(context.Background(), record))
	record.Level = slog.LevelWarn
	require.NoError(t, h.Handle(context.Background(), record))
	record.Level = slog.LevelError
	require.NoError(t, h.Handle(context.Background(), record))
	record.Message = "no match"
	require.NoError(t, h.Handle(context.Background(), record))
	require.Contains(t, bufWe.String(), "no match")
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &HandlerOptions{Level: slog.LevelInfo, NoColor: true})
	log := slog.New(h)
	log.Info("graph ready", slog.Int("vertex", 1))
	require.Contains(t, buf.String(), "graph ready")
	require.Contains(t, buf.String(), "vertex= 1 ")
}

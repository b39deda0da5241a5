// Package logging builds the slog loggers used to trace generation.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// PrettyJSONHandler pretty prints each record as an indented JSON object.
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs)+3)
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PrettyJSONHandler{
		JSONHandler: h.JSONHandler,
		writer:      h.writer,
		mu:          h.mu,
		attrs:       append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

// NewPrettyJSONHandler returns a handler writing indented JSON to w.
func NewPrettyJSONHandler(w io.Writer, level slog.Leveler) *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		writer:      w,
		mu:          &sync.Mutex{},
	}
}

// New returns a logger writing JSON records at level or above to w.
func New(w io.Writer, level slog.Leveler, pretty bool) *slog.Logger {
	if pretty {
		return slog.New(NewPrettyJSONHandler(w, level))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Dev traces every matcher decision to stderr.
func Dev() *slog.Logger { return New(os.Stderr, slog.LevelDebug, true) }

// Prod logs warnings and errors to stderr.
func Prod() *slog.Logger { return New(os.Stderr, slog.LevelWarn, false) }

// Discard drops everything.
func Discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

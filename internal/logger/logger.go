// Package logger configures the process-wide slog logger used by both commands.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"
)

type Config struct {
	// Out defaults to os.Stderr.
	Out   io.Writer
	Debug bool
	JSON  bool
}

// Setup builds a logger from cfg, makes it the slog default and returns it.
func Setup(cfg Config) *slog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	level := slog.LevelInfo
	addSource := false
	if cfg.Debug {
		level = slog.LevelDebug
		addSource = true
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(t.Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	l := slog.New(h)
	slog.SetDefault(l)

	l.Debug("logger.initialized", "debug", cfg.Debug, "json", cfg.JSON)
	return l
}

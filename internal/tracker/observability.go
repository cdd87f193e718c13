package tracker

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single tracker HTTP call.
type CallEvent struct {
	Operation string
	Method    string
	Path      string
	Status    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about tracker calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// LogObserver writes tracker call events as slog text lines.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"op", event.Operation,
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Error("tracker_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("tracker_call", attrs...)
}

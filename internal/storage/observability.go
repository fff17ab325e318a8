package storage

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single submission request.
type CallEvent struct {
	Endpoint   string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about submission requests for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []slog.Attr{
		slog.String("endpoint", event.Endpoint),
		slog.Int("status", event.StatusCode),
		slog.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.logger.LogAttrs(context.Background(), slog.LevelInfo, "dish submitted", attrs...)
		return
	}
	attrs = append(attrs, slog.String("error_code", event.ErrorCode))
	o.logger.LogAttrs(context.Background(), slog.LevelWarn, "dish submission failed", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

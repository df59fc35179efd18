package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see client internals in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}
	if event.ConnectionID != "" {
		attrs = append(attrs, slog.String("conn_id", event.ConnectionID))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Uint64("seq", uint64(event.Frame.Sequence)),
			slog.Int("size", event.Frame.Size),
			slog.String("sink", event.Frame.Sink),
		)
	case event.Discovery != nil:
		attrs = append(attrs,
			slog.String("service", event.Discovery.ServiceType),
			slog.String("status", event.Discovery.Status),
		)
		if event.Discovery.Host != "" {
			attrs = append(attrs,
				slog.String("host", event.Discovery.Host),
				slog.Uint64("port", uint64(event.Discovery.Port)),
			)
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("context", event.Error.Context),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "nslogger", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)

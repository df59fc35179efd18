// Package log provides a structured diagnostic trace of the logging
// client itself: connection state changes, frames written to a sink,
// discovery progress and recoverable errors.
//
// This is separate from the log messages the client ships to the viewer.
// It exists so that a client that is itself a logging pipeline can be
// debugged without a working pipeline.
//
// Applications pick a Logger implementation:
//
//	// Development: events on the console via slog
//	opts.Trace = log.NewSlogAdapter(slog.Default())
//
//	// Field debugging: machine-readable CBOR event file
//	opts.Trace, _ = log.NewFileLogger("/tmp/nslogger-trace.clog")
//
//	// Both
//	opts.Trace = log.NewMultiLogger(slogAdapter, fileLogger)
//
// Passing nil (or NoopLogger) disables tracing.
package log

// Package logger implements the NSLogger client core: an ordered
// outbound queue of log messages, a single worker goroutine that owns
// the active sink and the connection state machine, and the producer
// facade.
//
// Producers never touch the queue, the sink or the connection flags.
// They build messages and hand them to Enqueue, which forwards them as
// commands over a channel. The worker consumes commands strictly in
// arrival order and drives the lifecycle: discover the viewer over
// Bonjour (or use a configured endpoint), connect over TCP, optionally
// upgrade to TLS, drain the queue, and on any transport failure fall
// back to a scheduled reconnect with exponential backoff. When no viewer
// is reachable and a buffer file is configured, messages drain to disk
// instead of being dropped.
//
// Connection and write failures never propagate to producer code; at
// worst, messages queue in memory until connectivity returns.
package logger

// Package transport provides the write targets log messages are drained
// to, and the dialer that establishes them.
//
// A Sink is one of a closed set of variants: a network stream (plain TCP
// or TLS) connected to a desktop viewer, or a buffered local file used
// while no viewer is reachable. All variants expose WriteAll and Flush;
// the logger's worker goroutine is the only caller.
//
// The Dialer connects over TCP and optionally upgrades the same
// connection to TLS in place. Certificate verification defaults to off:
// the viewer presents a self-signed certificate and the link is a local
// peer-to-peer debugging channel. Supply Dialer.TLSConfig to change that
// policy.
package transport

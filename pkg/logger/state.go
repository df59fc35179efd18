package logger

import (
	"sync"
	"sync/atomic"

	"github.com/nslogger/nslogger-go/pkg/transport"
)

// ConnState names the worker's position in the connection lifecycle.
type ConnState uint8

const (
	// StateIdle means no endpoint is known and nothing is in progress.
	StateIdle ConnState = iota

	// StateDiscovering means a Bonjour lookup is outstanding.
	StateDiscovering

	// StateConnecting means a connection attempt is in progress.
	StateConnecting

	// StateConnected means an open sink is accepting messages.
	StateConnected

	// StateReconnectScheduled means a retry timer is pending.
	StateReconnectScheduled

	// StateStopped is terminal, reached via Shutdown.
	StateStopped
)

// String returns the state name.
func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDiscovering:
		return "DISCOVERING"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnectScheduled:
		return "RECONNECT_SCHEDULED"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// state is the single source of truth shared between the facade and the
// worker. The facade seeds configuration before the worker starts; once
// running, the worker is the exclusive mutator. All access goes through
// mu, and no method of state takes mu itself: the caller holds it for
// the whole operation, which keeps lock acquisition non-reentrant.
type state struct {
	mu sync.Mutex

	opts Options

	// flushEach mirrors opts.FlushEachMessage for lock-free reads on the
	// producer path. Enqueue must never wait on mu: the worker holds it
	// across sink writes, and a stalled peer would wedge every producer.
	flushEach atomic.Bool

	// FIFO queue. Producers reach it only through addLogCmd.
	queue []queuedMessage

	// Connection flags. connecting and connected are never both true;
	// reconnectScheduled covers at most one pending retry timer.
	connecting         bool
	connected          bool
	reconnectScheduled bool

	// clientInfoSent records that the synthetic client-info message has
	// been pushed to the queue head for the current connection.
	clientInfoSent bool

	// sink is the at-most-one open transport.
	sink transport.Sink

	// connID labels trace events for the current sink's lifetime.
	connID string

	// Remote endpoint, from configuration or discovery.
	remoteHost  string
	remotePort  uint16
	serviceName string

	// seq is the process-wide sequence counter, shared by every message
	// this client creates. Never reset while the process runs.
	seq atomic.Uint32
}

// connState derives the lifecycle state from the flags.
// Caller holds mu.
func (s *state) connState() ConnState {
	switch {
	case s.connected:
		return StateConnected
	case s.connecting:
		return StateConnecting
	case s.reconnectScheduled:
		return StateReconnectScheduled
	default:
		return StateIdle
	}
}

// hasEndpoint reports whether a remote endpoint is known.
// Caller holds mu.
func (s *state) hasEndpoint() bool {
	return s.remoteHost != "" && s.remotePort != 0
}

// nextSequence returns the next sequence number. Safe without mu: the
// counter is atomic and grows monotonically for the process lifetime.
func (s *state) nextSequence() uint32 {
	return s.seq.Add(1) - 1
}

package logger

import (
	"crypto/tls"
	"time"

	logl "github.com/nslogger/nslogger-go/pkg/log"
)

// Defaults for worker behavior.
const (
	// DefaultCommandBuffer is the command channel capacity. Producers
	// enqueue without blocking as long as the worker keeps up.
	DefaultCommandBuffer = 256

	// ReadyPollInterval bounds each wait step during the one-time
	// startup handshake, so waiting producers stay interruptible.
	ReadyPollInterval = 100 * time.Millisecond
)

// Options configures the logging client. Each flag maps to one
// state-machine behavior; invalid combinations cannot be expressed.
type Options struct {
	// FlushEachMessage makes Enqueue wait until its message has been
	// written to the sink (connecting first if necessary).
	FlushEachMessage bool

	// BrowseBonjour enables viewer discovery via Bonjour when no remote
	// endpoint is configured.
	BrowseBonjour bool

	// UseTLS upgrades viewer connections to TLS. It also selects the
	// SSL Bonjour service type.
	UseTLS bool

	// RouteToLocalBuffer sends messages to the buffer file even when a
	// remote endpoint is known.
	RouteToLocalBuffer bool

	// BufferFilePath is the local file messages drain to while no viewer
	// connection exists. Empty disables disk buffering.
	BufferFilePath string

	// TLSConfig overrides the TLS settings used for viewer connections.
	// Nil means the default config with certificate verification
	// disabled (see transport.NewViewerTLSConfig for the rationale).
	TLSConfig *tls.Config

	// Trace receives diagnostic events from the client itself.
	// Nil disables tracing.
	Trace logl.Logger

	// ConnectTimeout bounds one connection attempt. Zero means the
	// transport default.
	ConnectTimeout time.Duration

	// BrowseTimeout bounds one Bonjour browse pass. Zero means the
	// discovery default.
	BrowseTimeout time.Duration

	// CommandBuffer is the command channel capacity. Zero means
	// DefaultCommandBuffer.
	CommandBuffer int
}

// DefaultOptions mirror the original client: browse for an SSL viewer.
func DefaultOptions() Options {
	return Options{
		BrowseBonjour: true,
		UseTLS:        true,
	}
}

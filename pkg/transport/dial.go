package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultConnectTimeout bounds a single connection attempt, including the
// TLS handshake when enabled.
const DefaultConnectTimeout = 10 * time.Second

// DefaultWriteTimeout bounds each write on a dialed stream sink.
const DefaultWriteTimeout = 30 * time.Second

// Dialer establishes viewer connections.
type Dialer struct {
	// UseTLS upgrades the TCP connection to TLS in place after connecting.
	UseTLS bool

	// TLSConfig overrides the TLS settings. Nil means the default viewer
	// config with certificate verification disabled (see NewViewerTLSConfig).
	TLSConfig *tls.Config

	// ConnectTimeout bounds the whole attempt (default: 10s).
	ConnectTimeout time.Duration

	// WriteTimeout bounds each write on the resulting sink
	// (default: 30s).
	WriteTimeout time.Duration
}

// Dial connects to host:port and returns a StreamSink ready for writing.
// When UseTLS is set, the handshake runs over the same TCP connection
// before the sink is returned, so the caller never observes a plain
// stream that should have been encrypted.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (*StreamSink, error) {
	timeout := d.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	writeTimeout := d.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = DefaultWriteTimeout
	}

	address := net.JoinHostPort(host, strconv.Itoa(int(port)))

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", address, err)
	}

	if d.UseTLS {
		conf := d.TLSConfig
		if conf == nil {
			conf = NewViewerTLSConfig()
		}
		tlsConn := tls.Client(conn, conf)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake with %s failed: %w", address, err)
		}
		conn = tlsConn
	}

	sink := NewStreamSink(conn)
	sink.SetWriteTimeout(writeTimeout)
	return sink, nil
}

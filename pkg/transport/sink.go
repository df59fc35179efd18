package transport

import (
	"bufio"
	"errors"
	"net"
	"os"
	"time"
)

// Sink errors.
var (
	// ErrSinkClosed indicates a write to a closed sink.
	ErrSinkClosed = errors.New("sink closed")

	// ErrSinkAlreadyOpen indicates an attempt to open a sink while one is
	// already installed. The state machine gates against this, so seeing
	// it means a logic bug, not a transient network condition.
	ErrSinkAlreadyOpen = errors.New("internal error: sink already open")
)

// SinkKind identifies the sink variant.
type SinkKind uint8

const (
	// SinkStream is a network stream to the viewer (TCP or TLS).
	SinkStream SinkKind = iota

	// SinkFile is a buffered local file.
	SinkFile
)

// String returns the sink kind name.
func (k SinkKind) String() string {
	switch k {
	case SinkStream:
		return "STREAM"
	case SinkFile:
		return "FILE"
	default:
		return "UNKNOWN"
	}
}

// Sink is a write target for encoded log messages. Implementations are
// not required to be thread-safe: exactly one worker goroutine owns the
// active sink at any time.
type Sink interface {
	// WriteAll writes the entire buffer or returns an error. A short
	// write is reported as an error so the caller can treat the message
	// as untransmitted.
	WriteAll(p []byte) error

	// Flush pushes buffered bytes to the underlying destination.
	Flush() error

	// Close flushes and releases the sink.
	Close() error

	// Kind reports the sink variant.
	Kind() SinkKind
}

// StreamSink wraps a network connection to the viewer. The connection may
// be a plain *net.TCPConn or a *tls.Conn; the TLS upgrade happens before
// the sink is constructed, so swapping security modes never leaves a
// half-open sink visible.
type StreamSink struct {
	conn         net.Conn
	closed       bool
	writeTimeout time.Duration
}

// NewStreamSink wraps an established connection.
func NewStreamSink(conn net.Conn) *StreamSink {
	return &StreamSink{conn: conn}
}

// SetWriteTimeout bounds each WriteAll call with a write deadline, so a
// dead peer surfaces as a write error instead of stalling the worker
// indefinitely. Zero disables the deadline.
func (s *StreamSink) SetWriteTimeout(d time.Duration) {
	s.writeTimeout = d
}

// RemoteAddr returns the peer address.
func (s *StreamSink) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

// WriteAll writes the entire buffer to the connection.
func (s *StreamSink) WriteAll(p []byte) error {
	if s.closed {
		return ErrSinkClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		defer func() { _ = s.conn.SetWriteDeadline(time.Time{}) }()
	}
	for len(p) > 0 {
		n, err := s.conn.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Flush is a no-op: net.Conn writes are unbuffered at this layer.
func (s *StreamSink) Flush() error {
	if s.closed {
		return ErrSinkClosed
	}
	return nil
}

// Close closes the underlying connection.
func (s *StreamSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Kind reports SinkStream.
func (s *StreamSink) Kind() SinkKind {
	return SinkStream
}

// FileSink appends encoded messages to a local buffer file. The file
// carries the same framing as the network stream, so the viewer (or
// nslog-cat) can replay it later.
type FileSink struct {
	file   *os.File
	w      *bufio.Writer
	closed bool
}

// NewFileSink opens (or creates) the buffer file in append mode.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f, w: bufio.NewWriter(f)}, nil
}

// Path returns the buffer file path.
func (s *FileSink) Path() string {
	return s.file.Name()
}

// WriteAll writes the entire buffer to the file.
func (s *FileSink) WriteAll(p []byte) error {
	if s.closed {
		return ErrSinkClosed
	}
	_, err := s.w.Write(p)
	return err
}

// Flush writes buffered bytes through to the file.
func (s *FileSink) Flush() error {
	if s.closed {
		return ErrSinkClosed
	}
	return s.w.Flush()
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Kind reports SinkFile.
func (s *FileSink) Kind() SinkKind {
	return SinkFile
}

// Compile-time interface satisfaction checks.
var (
	_ Sink = (*StreamSink)(nil)
	_ Sink = (*FileSink)(nil)
)

package logger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nslogger/nslogger-go/pkg/wire"
)

// Logger is the client facade. It is safe for concurrent use: any
// goroutine may build and enqueue messages, while a single worker
// goroutine owns the connection and performs all I/O.
//
// The worker starts lazily on the first enqueue, so constructing a
// Logger is free until it is actually used.
type Logger struct {
	st *state
	w  *worker

	startOnce sync.Once
	started   atomic.Bool
	ready     chan struct{}
}

// New creates a client with the given options. Call SetRemoteHost to
// target a fixed viewer, or leave BrowseBonjour enabled to find one.
func New(opts Options) *Logger {
	st := &state{opts: opts}
	st.flushEach.Store(opts.FlushEachMessage)
	return &Logger{
		st:    st,
		w:     newWorker(st),
		ready: make(chan struct{}),
	}
}

// NewMessage allocates a message of the given type with the next
// sequence number and the current time. The caller adds its payload
// parts and hands the message to Enqueue.
func (l *Logger) NewMessage(t wire.MessageType) *wire.Message {
	return wire.NewMessage(t, l.st.nextSequence())
}

// Enqueue hands a message to the worker. The first call starts the
// worker and waits for its initial setup before delivering.
//
// With FlushEachMessage set, Enqueue blocks until the message reached
// the sink, turning the client into a lossless slow path.
func (l *Logger) Enqueue(m *wire.Message) {
	l.start()

	entry := queuedMessage{msg: m}

	// Read the flush mode without touching st.mu: the worker holds that
	// mutex across sink writes, and enqueueing must stay non-blocking.
	blocking := l.st.flushEach.Load()

	if blocking {
		entry.written = make(chan struct{})
	}

	select {
	case l.w.commands <- addLogCmd{entry: entry}:
	case <-l.w.done:
		return
	}

	if blocking {
		select {
		case <-entry.written:
		case <-l.w.done:
		}
	}
}

// SetRemoteHost targets a fixed viewer endpoint. Before the worker
// starts this just seeds the configuration; afterwards the worker drops
// any live connection to the old endpoint and reconnects.
func (l *Logger) SetRemoteHost(host string, port uint16, useTLS bool) {
	if !l.started.Load() {
		l.st.mu.Lock()
		l.st.remoteHost = host
		l.st.remotePort = port
		l.st.opts.UseTLS = useTLS
		l.st.mu.Unlock()

		// A first Enqueue may have started the worker between the check
		// and the seed, with the worker sampling an empty endpoint. The
		// re-check closes that window; the redundant command is harmless
		// since no connection can exist yet.
		if !l.started.Load() {
			return
		}
	}

	l.w.post(setEndpointCmd{host: host, port: port, useTLS: useTLS})
}

// ApplyOptions replaces the client options. Changing the security or
// routing options drops any live connection so the next one honors
// them. The trace logger from construction time is kept.
func (l *Logger) ApplyOptions(opts Options) {
	if !l.started.Load() {
		l.st.mu.Lock()
		opts.Trace = l.st.opts.Trace
		l.st.opts = opts
		l.st.flushEach.Store(opts.FlushEachMessage)
		l.st.mu.Unlock()

		// Same startup race as SetRemoteHost: re-check after seeding.
		if !l.started.Load() {
			return
		}
	}

	l.w.post(optionChangeCmd{opts: opts})
}

// State reports the current connection lifecycle state.
func (l *Logger) State() ConnState {
	if l.started.Load() && isClosed(l.w.done) {
		return StateStopped
	}
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return l.st.connState()
}

// Shutdown stops the worker after it finishes the commands already
// queued, flushes what it can, and waits for it to exit. Further
// enqueues are dropped. Safe to call more than once.
func (l *Logger) Shutdown() {
	if !l.started.Load() {
		return
	}

	select {
	case l.w.commands <- quitCmd{}:
	case <-l.w.done:
	}
	<-l.w.done
}

// start launches the worker on first use and waits, in bounded polls,
// until its initial setup completed.
func (l *Logger) start() {
	l.startOnce.Do(func() {
		l.started.Store(true)
		go l.w.run(l.ready)
	})

	for {
		select {
		case <-l.ready:
			return
		case <-l.w.done:
			return
		case <-time.After(ReadyPollInterval):
		}
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

package logger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nslogger/nslogger-go/pkg/discovery"
	logl "github.com/nslogger/nslogger-go/pkg/log"
	"github.com/nslogger/nslogger-go/pkg/transport"
)

// worker is the single goroutine that owns the sink and drives the
// connection state machine. All mutation of the shared state happens
// here once the worker is running.
type worker struct {
	st    *state
	trace logl.Logger

	commands chan command

	// pending holds worker-internal follow-up commands (connect-complete,
	// try-connect after an endpoint change). They are consumed before the
	// channel so the worker never blocks posting to its own full mailbox.
	pending []command

	// done is closed when the worker loop exits.
	done chan struct{}

	backoff  *backoff
	uniqueID string

	// retryDelay paces repeated Bonjour lookups after a miss.
	retryDelay time.Duration

	// manager is created on first Bonjour lookup.
	manager    *discovery.Manager
	newBrowser func() discovery.Browser

	dial func(d *transport.Dialer, host string, port uint16) (transport.Sink, error)
}

func newWorker(st *state) *worker {
	trace := st.opts.Trace
	if trace == nil {
		trace = logl.NoopLogger{}
	}

	buffer := st.opts.CommandBuffer
	if buffer <= 0 {
		buffer = DefaultCommandBuffer
	}

	w := &worker{
		st:         st,
		trace:      trace,
		commands:   make(chan command, buffer),
		done:       make(chan struct{}),
		backoff:    newBackoff(),
		uniqueID:   uuid.New().String(),
		retryDelay: discovery.DefaultRetryDelay,
	}
	w.newBrowser = func() discovery.Browser {
		return discovery.NewMDNSBrowser(discovery.BrowserConfig{Timeout: st.opts.BrowseTimeout})
	}
	w.dial = func(d *transport.Dialer, host string, port uint16) (transport.Sink, error) {
		return d.Dial(context.Background(), host, port)
	}
	return w
}

// run is the worker loop. ready is closed once initial setup finished
// and the worker accepts commands; waiting producers unblock then.
func (w *worker) run(ready chan<- struct{}) {
	defer close(w.done)

	w.st.mu.Lock()
	opts := w.st.opts
	hasEndpoint := w.st.hasEndpoint()
	w.st.mu.Unlock()

	// Initial setup according to the seeded configuration.
	switch {
	case opts.RouteToLocalBuffer && opts.BufferFilePath != "":
		// Local-only mode: nothing to set up until the first drain.
	case hasEndpoint:
		w.selfPost(tryConnectCmd{})
	case opts.BrowseBonjour:
		w.traceState(StateIdle, StateDiscovering, "bonjour browse")
		w.lookup(0)
	}

	close(ready)

	for {
		var cmd command
		if len(w.pending) > 0 {
			cmd = w.pending[0]
			w.pending = w.pending[1:]
		} else {
			cmd = <-w.commands
		}

		switch c := cmd.(type) {
		case addLogCmd:
			w.handleAddLog(c)
		case setEndpointCmd:
			w.handleSetEndpoint(c)
		case optionChangeCmd:
			w.handleOptionChange(c)
		case tryConnectCmd:
			w.handleTryConnect()
		case connectCompleteCmd:
			w.handleConnectComplete()
		case resolvedCmd:
			w.handleResolved(c)
		case quitCmd:
			w.shutdown()
			return
		}
	}
}

// selfPost queues a follow-up command from the worker goroutine itself.
func (w *worker) selfPost(cmd command) {
	w.pending = append(w.pending, cmd)
}

// post delivers a command from outside the worker goroutine (producers,
// timers, the discovery manager). After shutdown the command is dropped.
func (w *worker) post(cmd command) {
	select {
	case w.commands <- cmd:
	case <-w.done:
	}
}

func (w *worker) handleAddLog(c addLogCmd) {
	w.st.mu.Lock()
	defer w.st.mu.Unlock()

	w.st.queue = append(w.st.queue, c.entry)
	w.drainLocked()
}

func (w *worker) handleSetEndpoint(c setEndpointCmd) {
	w.st.mu.Lock()

	changed := w.st.remoteHost != c.host ||
		w.st.remotePort != c.port ||
		w.st.opts.UseTLS != c.useTLS

	w.st.remoteHost = c.host
	w.st.remotePort = c.port
	w.st.opts.UseTLS = c.useTLS

	if changed && w.st.sink != nil {
		w.closeSinkLocked("endpoint changed")
	}
	w.st.mu.Unlock()

	w.selfPost(tryConnectCmd{})
}

func (w *worker) handleOptionChange(c optionChangeCmd) {
	w.st.mu.Lock()

	old := w.st.opts
	// The trace logger is wired at construction and not swappable.
	c.opts.Trace = old.Trace
	w.st.opts = c.opts
	w.st.flushEach.Store(c.opts.FlushEachMessage)

	if (old.UseTLS != c.opts.UseTLS || old.RouteToLocalBuffer != c.opts.RouteToLocalBuffer) &&
		w.st.sink != nil {
		w.closeSinkLocked("options changed")
	}
	w.st.mu.Unlock()

	w.selfPost(tryConnectCmd{})
}

func (w *worker) handleTryConnect() {
	w.st.mu.Lock()

	w.st.reconnectScheduled = false

	if w.st.connecting {
		w.st.mu.Unlock()
		return
	}
	if w.st.sink != nil && w.st.sink.Kind() == transport.SinkStream {
		// Gated by the state machine; reaching this is a logic bug.
		connID := w.st.connID
		w.st.mu.Unlock()
		w.trace.Log(logl.ErrorEvent(connID, "try-connect", transport.ErrSinkAlreadyOpen))
		return
	}

	if w.st.opts.RouteToLocalBuffer && w.st.opts.BufferFilePath != "" {
		// Local-only mode never opens network sinks.
		w.st.mu.Unlock()
		return
	}

	if !w.st.hasEndpoint() {
		browse := w.st.opts.BrowseBonjour
		w.st.mu.Unlock()
		if browse {
			w.traceState(StateIdle, StateDiscovering, "no endpoint")
			w.lookup(0)
		}
		return
	}

	// A buffering file sink yields to the network connection.
	if w.st.sink != nil {
		w.closeSinkLocked("switching to network")
	}

	w.st.connecting = true
	host := w.st.remoteHost
	port := w.st.remotePort
	dialer := &transport.Dialer{
		UseTLS:         w.st.opts.UseTLS,
		TLSConfig:      w.st.opts.TLSConfig,
		ConnectTimeout: w.st.opts.ConnectTimeout,
	}
	w.st.mu.Unlock()

	w.traceState(StateIdle, StateConnecting, "")

	// The dial blocks the worker, never the producers: commands simply
	// queue up until the attempt resolves.
	sink, err := w.dial(dialer, host, port)

	w.st.mu.Lock()
	w.st.connecting = false
	if err != nil {
		w.trace.Log(logl.ErrorEvent("", "connect", err))
		w.scheduleReconnectLocked("connect failed")
		w.st.mu.Unlock()
		return
	}

	w.st.sink = sink
	w.st.connID = uuid.New().String()
	w.st.mu.Unlock()

	w.selfPost(connectCompleteCmd{})
}

func (w *worker) handleConnectComplete() {
	w.st.mu.Lock()
	w.st.connecting = false
	w.st.connected = true
	w.backoff.reset()
	w.st.mu.Unlock()

	w.traceState(StateConnecting, StateConnected, "")

	w.st.mu.Lock()
	w.drainLocked()
	w.st.mu.Unlock()
}

func (w *worker) handleResolved(c resolvedCmd) {
	if c.result.Status != discovery.StatusFound {
		// Not fatal: ask for another pass after a pause. The manager
		// performs one attempt per request; pacing lives here.
		w.lookup(w.retryDelay)
		return
	}

	w.st.mu.Lock()
	w.st.serviceName = c.result.Endpoint.Instance
	w.st.remoteHost = c.result.Endpoint.Host
	w.st.remotePort = c.result.Endpoint.Port
	w.st.mu.Unlock()

	w.traceState(StateDiscovering, StateIdle, "endpoint resolved")
	w.selfPost(tryConnectCmd{})
}

// lookup asks the discovery manager for one browse pass, creating the
// manager on first use. The manager runs on its own goroutine and owns
// its own mDNS resources, so the worker never blocks on its I/O.
func (w *worker) lookup(delay time.Duration) {
	if w.manager == nil {
		w.manager = discovery.NewManager(
			w.newBrowser(),
			func(r discovery.Result) { w.post(resolvedCmd{result: r}) },
			w.trace,
		)
		w.manager.Start()
	}

	w.st.mu.Lock()
	serviceType := discovery.ServiceType(w.st.opts.UseTLS)
	w.st.mu.Unlock()

	w.manager.Lookup(discovery.Request{ServiceType: serviceType, Delay: delay})
}

// drainLocked flushes the queue to the current sink. Caller holds st.mu.
//
// Write failures are connection loss, not process failure: the head
// message stays queued, the sink closes, and a reconnect is scheduled so
// the message retransmits before anything enqueued later.
func (w *worker) drainLocked() {
	if len(w.st.queue) == 0 {
		return
	}

	if !w.st.clientInfoSent {
		info := queuedMessage{msg: newClientInfoMessage(w.st.nextSequence(), w.uniqueID)}
		w.st.queue = append([]queuedMessage{info}, w.st.queue...)
		w.st.clientInfoSent = true
	}

	if w.st.sink == nil && !w.openBufferSinkLocked() {
		return
	}
	if w.st.sink.Kind() == transport.SinkStream && !w.st.connected {
		return
	}

	flushEach := w.st.opts.FlushEachMessage
	for len(w.st.queue) > 0 {
		head := w.st.queue[0]
		frame := head.msg.Bytes()

		if err := w.st.sink.WriteAll(frame); err != nil {
			w.failSinkLocked("write", err)
			return
		}
		if flushEach || w.st.sink.Kind() == transport.SinkFile {
			if err := w.st.sink.Flush(); err != nil {
				// The head is treated as untransmitted; a duplicate on
				// the wire beats a silent drop.
				w.failSinkLocked("flush", err)
				return
			}
		}

		w.st.queue = w.st.queue[1:]
		w.trace.Log(logl.FrameWritten(
			w.st.connID, head.msg.SequenceNumber(), len(frame), w.st.sink.Kind().String(),
		))
		if head.written != nil {
			close(head.written)
		}
	}
}

// openBufferSinkLocked installs the file sink for disconnected
// buffering, when configured. Caller holds st.mu. Reports whether a
// sink is now available.
func (w *worker) openBufferSinkLocked() bool {
	usable := w.st.opts.BufferFilePath != "" &&
		(w.st.opts.RouteToLocalBuffer || !w.st.hasEndpoint())
	if !usable {
		return false
	}

	sink, err := transport.NewFileSink(w.st.opts.BufferFilePath)
	if err != nil {
		w.trace.Log(logl.ErrorEvent("", "open buffer file", err))
		return false
	}
	w.st.sink = sink
	w.st.connID = uuid.New().String()
	return true
}

// closeSinkLocked tears down the current sink and resets the per-
// connection flags. Caller holds st.mu.
func (w *worker) closeSinkLocked(reason string) {
	if w.st.sink == nil {
		return
	}
	old := w.st.connState()
	_ = w.st.sink.Close()
	w.st.sink = nil
	w.st.connected = false
	w.st.clientInfoSent = false

	w.trace.Log(logl.StateEvent(w.st.connID, old.String(), w.st.connState().String(), reason))
	w.st.connID = ""
}

// failSinkLocked handles a transport error mid-drain. Caller holds st.mu.
func (w *worker) failSinkLocked(op string, err error) {
	w.trace.Log(logl.ErrorEvent(w.st.connID, op, err))

	wasStream := w.st.sink != nil && w.st.sink.Kind() == transport.SinkStream
	w.closeSinkLocked(op + " failed")

	if wasStream {
		w.scheduleReconnectLocked(op + " failed")
	}
}

// scheduleReconnectLocked arms the retry timer, at most one at a time.
// Caller holds st.mu.
func (w *worker) scheduleReconnectLocked(reason string) {
	if w.st.reconnectScheduled {
		return
	}
	w.st.reconnectScheduled = true
	delay := w.backoff.next()

	w.trace.Log(logl.StateEvent("", StateIdle.String(), StateReconnectScheduled.String(), reason))

	time.AfterFunc(delay, func() {
		w.post(tryConnectCmd{})
	})
}

// shutdown finishes any possible drain, releases the sink and stops
// discovery. Runs once, as the last act of the worker loop.
func (w *worker) shutdown() {
	w.st.mu.Lock()
	w.drainLocked()
	if w.st.sink != nil {
		_ = w.st.sink.Close()
		w.st.sink = nil
	}
	w.st.connected = false
	w.st.connecting = false
	w.st.reconnectScheduled = false
	w.st.mu.Unlock()

	if w.manager != nil {
		w.manager.Stop()
	}

	w.traceState(StateIdle, StateStopped, "quit")
}

// traceState records a lifecycle transition.
func (w *worker) traceState(from, to ConnState, reason string) {
	w.st.mu.Lock()
	connID := w.st.connID
	w.st.mu.Unlock()
	w.trace.Log(logl.StateEvent(connID, from.String(), to.String(), reason))
}

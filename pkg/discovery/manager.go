package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	logl "github.com/nslogger/nslogger-go/pkg/log"
)

// Request asks the Manager for one lookup attempt.
type Request struct {
	// ServiceType is the Bonjour service type to browse.
	ServiceType string

	// Delay is an optional pause before the attempt starts. The caller
	// uses it to pace retries after an unresolved result.
	Delay time.Duration
}

// EmitFunc delivers a lookup result back to the owner. It is called from
// the Manager's goroutine and must not block for long.
type EmitFunc func(Result)

// Manager runs lookup attempts on a dedicated goroutine so that mDNS
// I/O never blocks the owner. Exactly one attempt runs per Request; the
// owner decides whether and when to retry.
type Manager struct {
	browser Browser
	emit    EmitFunc
	trace   logl.Logger

	requests chan Request

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	started bool
}

// NewManager creates a discovery manager. The trace logger may be nil.
func NewManager(browser Browser, emit EmitFunc, trace logl.Logger) *Manager {
	if trace == nil {
		trace = logl.NoopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		browser:  browser,
		emit:     emit,
		trace:    trace,
		requests: make(chan Request, 4),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the lookup goroutine. Calling Start more than once has
// no effect.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true

	m.wg.Add(1)
	go m.run()
}

// Stop cancels any in-flight attempt and waits for the goroutine to exit.
func (m *Manager) Stop() {
	m.cancel()

	m.mu.Lock()
	started := m.started
	m.mu.Unlock()
	if started {
		m.wg.Wait()
	}
}

// Lookup queues one lookup attempt. It never blocks: when the queue is
// full or the manager is stopped, the request is dropped and the caller's
// retry pacing will re-issue it.
func (m *Manager) Lookup(req Request) {
	select {
	case m.requests <- req:
	case <-m.ctx.Done():
	default:
	}
}

// run consumes lookup requests until stopped.
func (m *Manager) run() {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case req := <-m.requests:
			m.attempt(req)
		}
	}
}

// attempt performs one delayed browse pass and emits the outcome.
func (m *Manager) attempt(req Request) {
	if req.Delay > 0 {
		select {
		case <-m.ctx.Done():
			return
		case <-time.After(req.Delay):
		}
	}

	endpoint, err := m.browser.Browse(m.ctx, req.ServiceType)

	var result Result
	switch {
	case err == nil:
		result = Result{ServiceType: req.ServiceType, Status: StatusFound, Endpoint: endpoint}
	case errors.Is(err, ErrBrowseTimeout):
		result = Result{ServiceType: req.ServiceType, Status: StatusTimeout}
	case errors.Is(err, context.Canceled):
		return
	default:
		result = Result{ServiceType: req.ServiceType, Status: StatusUnresolved}
	}

	m.trace.Log(logl.DiscoveryStatus(
		req.ServiceType, result.Status.String(),
		result.Endpoint.Instance, result.Endpoint.Host, result.Endpoint.Port,
	))

	m.emit(result)
}

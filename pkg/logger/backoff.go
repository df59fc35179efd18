package logger

import (
	"math/rand"
	"time"
)

// Reconnect backoff parameters.
const (
	initialBackoff    = 1 * time.Second
	maxBackoff        = 60 * time.Second
	backoffMultiplier = 2.0
	jitterFactor      = 0.25
)

// backoff computes exponential reconnect delays with jitter. It is only
// touched by the worker goroutine, so it carries no lock.
type backoff struct {
	current time.Duration
	rng     *rand.Rand
}

func newBackoff() *backoff {
	return &backoff{
		current: initialBackoff,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// next returns the jittered delay for the coming attempt and advances
// the base delay.
func (b *backoff) next() time.Duration {
	delay := b.current + time.Duration(b.rng.Float64()*jitterFactor*float64(b.current))

	n := time.Duration(float64(b.current) * backoffMultiplier)
	if n > maxBackoff {
		n = maxBackoff
	}
	b.current = n

	return delay
}

// reset restores the initial delay after a successful connection.
func (b *backoff) reset() {
	b.current = initialBackoff
}

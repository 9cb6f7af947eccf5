package sar

import (
	"context"
	"sync"
)

// FIFO buffers samples between an asynchronous producer (a serial reader
// goroutine, a mock sampler, or a test) and the single drain loop. It models
// the hardware FIFO plus its level-interrupt flag: Push appends a batch and
// sets the readiness flag, WaitForReady blocks until the flag is set and
// clears it before returning. The flag is edge-triggered — pushes while it is
// already set coalesce into a single wake, and pushes during a drain set it
// again so the next wait returns immediately.
//
// Single producer, single consumer. Samples are never dropped; the buffer
// grows as needed.
type FIFO struct {
	mu   sync.Mutex
	buf  []Sample
	head int

	// ready acts as the interrupt flag: a buffered slot holds the "set"
	// state, receiving from it is the acquire-and-clear.
	ready chan struct{}
}

// NewFIFO creates a FIFO with the given initial capacity hint.
func NewFIFO(capacity int) *FIFO {
	if capacity <= 0 {
		capacity = DefaultFIFOLevel
	}
	return &FIFO{
		buf:   make([]Sample, 0, capacity),
		ready: make(chan struct{}, 1),
	}
}

// Push appends a batch of samples and signals readiness. Safe to call from a
// different goroutine than the consumer.
func (f *FIFO) Push(batch ...Sample) {
	if len(batch) == 0 {
		return
	}
	f.mu.Lock()
	f.buf = append(f.buf, batch...)
	f.mu.Unlock()

	// Set the flag; no-op if it is already set.
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// WaitForReady blocks until Push has signalled readiness, then clears the
// flag and returns. Returns ctx.Err() if the context is cancelled first.
func (f *FIFO) WaitForReady(ctx context.Context) error {
	select {
	case <-f.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingCount returns the number of buffered samples.
func (f *FIFO) PendingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.buf) - f.head
}

// PopSample removes and returns the oldest buffered sample.
func (f *FIFO) PopSample() (Sample, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head >= len(f.buf) {
		return Sample{}, false
	}

	s := f.buf[f.head]
	f.head++
	if f.head == len(f.buf) {
		// Drained; reset to keep the backing array small.
		f.buf = f.buf[:0]
		f.head = 0
	}
	return s, true
}

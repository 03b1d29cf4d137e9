package device

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/amd-chrissosa/SHARK-Platform/internal/logging"
)

// ErrTimelineClosed is returned when submitting to a stopped timeline.
var ErrTimelineClosed = errors.New("device timeline is closed")

// op is a single unit of work on a timeline. Barrier sentinels carry a
// result channel instead of a body.
type op struct {
	run     func() error
	barrier chan error
}

// Timeline is an ordered queue of device operations serviced by a single
// worker goroutine. Operations retire strictly in submission order; a
// barrier observes every operation submitted before it.
type Timeline struct {
	name string
	ops  chan op
	wg   sync.WaitGroup

	submitted atomic.Uint64
	retired   atomic.Uint64

	// stateMu serializes submissions against Close: senders hold the
	// read side across the channel send so Close cannot close the
	// channel under them.
	stateMu sync.RWMutex
	closed  bool

	// faultMu guards fault. The worker takes only this lock, never
	// stateMu, so a sender blocked on a full queue can never stall
	// retirement.
	faultMu sync.Mutex
	fault   error // first unobserved op failure
}

func newTimeline(name string, depth int) *Timeline {
	if depth < 1 {
		depth = 1
	}

	t := &Timeline{
		name: name,
		ops:  make(chan op, depth),
	}

	t.wg.Add(1)
	go t.serve()
	return t
}

// serve is the timeline worker. It owns execution order: one op at a time,
// strictly FIFO.
func (t *Timeline) serve() {
	defer t.wg.Done()

	for o := range t.ops {
		if o.barrier != nil {
			// A barrier observes (and consumes) the first fault among
			// the operations that retired before it.
			t.faultMu.Lock()
			fault := t.fault
			t.fault = nil
			t.faultMu.Unlock()

			o.barrier <- fault
			t.retired.Add(1)
			continue
		}

		if err := o.run(); err != nil {
			t.faultMu.Lock()
			if t.fault == nil {
				t.fault = err
			}
			t.faultMu.Unlock()
			logging.WithField("timeline", t.name).Debugf("operation failed: %v", err)
		}
		t.retired.Add(1)
	}
}

// Enqueue submits an operation to the back of the timeline. The call
// returns once the operation is queued; it does not wait for execution.
// If the submission queue is full, Enqueue blocks until the worker drains
// an entry.
func (t *Timeline) Enqueue(run func() error) error {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()

	if t.closed {
		return ErrTimelineClosed
	}

	t.ops <- op{run: run}
	t.submitted.Add(1)
	return nil
}

// Barrier submits a barrier sentinel and returns a channel that resolves
// once every previously submitted operation has retired. The channel
// yields the first fault recorded since the last observed barrier, or nil.
func (t *Timeline) Barrier() (<-chan error, error) {
	t.stateMu.RLock()
	defer t.stateMu.RUnlock()

	if t.closed {
		return nil, ErrTimelineClosed
	}

	// Buffered so the worker never blocks on an abandoned barrier.
	done := make(chan error, 1)
	t.ops <- op{barrier: done}
	t.submitted.Add(1)
	return done, nil
}

// Close drains the queue, stops the worker and rejects further
// submissions. Idempotent. A fault no barrier ever observed is logged so
// it is not silently lost.
func (t *Timeline) Close() {
	t.stateMu.Lock()
	if t.closed {
		t.stateMu.Unlock()
		return
	}
	t.closed = true
	close(t.ops)
	t.stateMu.Unlock()

	t.wg.Wait()

	t.faultMu.Lock()
	fault := t.fault
	t.fault = nil
	t.faultMu.Unlock()

	if fault != nil {
		logging.WithField("timeline", t.name).Warnf("unobserved fault at close: %v", fault)
	}
}

// Submitted returns the total number of submitted entries, barriers
// included.
func (t *Timeline) Submitted() uint64 {
	return t.submitted.Load()
}

// Retired returns the total number of retired entries, barriers included.
func (t *Timeline) Retired() uint64 {
	return t.retired.Load()
}

// Pending returns the number of entries submitted but not yet retired.
func (t *Timeline) Pending() uint64 {
	// Load order matters: retired first, so the difference never goes
	// negative while ops retire concurrently.
	retired := t.retired.Load()
	submitted := t.submitted.Load()
	if submitted < retired {
		return 0
	}
	return submitted - retired
}

package libtrace

import (
	"runtime"
	"sync/atomic"

	"github.com/gammazero/workerpool"
)

// schedulerState tracks the Running → Draining → Terminated lifecycle a
// Scheduler moves through exactly once per run.
type schedulerState int32

const (
	stateRunning schedulerState = iota
	stateDraining
	stateTerminated
)

// objectResult is what one submitted object analysis produces: its partial
// signature map and how many functions it contributed.
type objectResult struct {
	signatures map[string]string
	processed  int
}

// Handle is a future for one submitted object's analysis result.
type Handle struct {
	ch chan objectResult
}

// Wait blocks until the submitted object has been analyzed and returns its
// result.
func (h Handle) Wait() objectResult {
	return <-h.ch
}

// Scheduler fans per-object analysis out across a fixed-size worker pool
// (github.com/gammazero/workerpool), sized to runtime.NumCPU(), and hands
// back a per-submission Handle so the caller can collect results in
// submission order. This is the Go-native equivalent of the original
// thread pool's enqueue/drain-on-destruct contract.
type Scheduler struct {
	pool  *workerpool.WorkerPool
	state atomic.Int32
}

// NewScheduler starts a Scheduler with runtime.NumCPU() workers.
func NewScheduler() *Scheduler {
	s := &Scheduler{pool: workerpool.New(runtime.NumCPU())}
	s.state.Store(int32(stateRunning))
	return s
}

// Submit schedules fn to run on a pool worker and returns a Handle for its
// result. Submit fails with ErrSchedulerClosed once the scheduler has begun
// draining or has terminated.
func (s *Scheduler) Submit(fn func() objectResult) (Handle, error) {
	if schedulerState(s.state.Load()) != stateRunning {
		return Handle{}, ErrSchedulerClosed
	}

	h := Handle{ch: make(chan objectResult, 1)}
	s.pool.Submit(func() {
		h.ch <- fn()
	})
	return h, nil
}

// Close transitions the scheduler to Draining, waits for every submitted
// task to complete and every worker to exit, then marks it Terminated. It
// is safe to call exactly once per Scheduler.
func (s *Scheduler) Close() {
	s.state.Store(int32(stateDraining))
	s.pool.StopWait()
	s.state.Store(int32(stateTerminated))
}

// atomicFunctionCounter is the shared "functions processed" counter every
// worker increments as it signs functions; relaxed add semantics suffice
// since only the final total is read, after Close has returned.
type atomicFunctionCounter struct {
	n atomic.Uint64
}

func (c *atomicFunctionCounter) add(n int) {
	c.n.Add(uint64(n))
}

func (c *atomicFunctionCounter) total() uint64 {
	return c.n.Load()
}

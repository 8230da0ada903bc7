// Package drain coordinates the lifetime of background work owned by a
// socket descriptor. A Guard accepts units of work and blocks Stop until
// every accepted unit has run to completion. Stop drains, it does not
// cancel: accepted work always finishes.
package drain

import (
	"errors"
	"sync"
)

// ErrStopped is returned by Submit once Stop has begun.
var ErrStopped = errors.New("drain: guard stopped")

// Guard tracks outstanding background work.
//
// Stop is idempotent and safe to call from multiple goroutines; every
// call blocks until all accepted work has completed. Once any Stop call
// has returned, no submitted task is running or will run.
type Guard interface {
	// Submit hands off one unit of work. It fails after Stop has begun.
	Submit(task func()) error

	// Stop refuses further work and blocks until the guard is drained.
	Stop()
}

// CountingGuard runs each task on its own goroutine and tracks the
// outstanding count. Stop waits on a condition until the count reaches
// zero.
type CountingGuard struct {
	mu      sync.Mutex
	cond    *sync.Cond
	count   uint64
	stopped bool
}

// NewCounting create a counting guard.
func NewCounting() *CountingGuard {
	g := &CountingGuard{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Submit starts task on a new goroutine.
func (g *CountingGuard) Submit(task func()) error {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return ErrStopped
	}
	g.count++
	g.mu.Unlock()

	go func() {
		defer g.done()
		task()
	}()
	return nil
}

func (g *CountingGuard) done() {
	g.mu.Lock()
	g.count--
	if g.count == 0 {
		g.cond.Broadcast()
	}
	g.mu.Unlock()
}

// Stop blocks until the outstanding count reaches zero.
func (g *CountingGuard) Stop() {
	g.mu.Lock()
	g.stopped = true
	for g.count > 0 {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// PoolGuard owns a fixed set of workers fed from a task channel. Stop
// closes the intake, lets in-flight tasks finish and joins the workers.
type PoolGuard struct {
	mu       sync.Mutex
	tasks    chan func()
	stopped  bool
	stopOnce sync.Once
	waitStop sync.WaitGroup
}

// DefaultPoolSize is the worker count used when NewPool is given a
// non-positive size.
const DefaultPoolSize = 2

// NewPool create a pool guard with the specified number of workers.
func NewPool(workers int) *PoolGuard {
	if workers <= 0 {
		workers = DefaultPoolSize
	}

	g := &PoolGuard{
		tasks: make(chan func(), workers),
	}
	g.waitStop.Add(workers)
	for i := 0; i < workers; i++ {
		go g.run()
	}
	return g
}

func (g *PoolGuard) run() {
	defer g.waitStop.Done()
	for task := range g.tasks {
		task()
	}
}

// Submit queues task for the pool. It blocks while all workers are busy
// and the queue is full.
func (g *PoolGuard) Submit(task func()) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped {
		return ErrStopped
	}
	g.tasks <- task
	return nil
}

// Stop closes the intake and joins the workers.
func (g *PoolGuard) Stop() {
	g.stopOnce.Do(func() {
		g.mu.Lock()
		g.stopped = true
		close(g.tasks)
		g.mu.Unlock()
	})
	g.waitStop.Wait()
}

package drain

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func guards() map[string]func() Guard {
	return map[string]func() Guard{
		"counting": func() Guard { return NewCounting() },
		"pool":     func() Guard { return NewPool(2) },
	}
}

func TestStopWaitsForWork(t *testing.T) {
	for name, newGuard := range guards() {
		t.Run(name, func(t *testing.T) {
			g := newGuard()
			var done int32
			for i := 0; i < 8; i++ {
				err := g.Submit(func() {
					time.Sleep(10 * time.Millisecond)
					atomic.AddInt32(&done, 1)
				})
				if err != nil {
					t.Fatal(err)
				}
			}

			g.Stop()
			if n := atomic.LoadInt32(&done); n != 8 {
				t.Errorf("stop returned with %d of 8 tasks finished", n)
			}
		})
	}
}

func TestStopTwice(t *testing.T) {
	for name, newGuard := range guards() {
		t.Run(name, func(t *testing.T) {
			g := newGuard()
			if err := g.Submit(func() {}); err != nil {
				t.Fatal(err)
			}

			finished := make(chan bool, 2)
			for i := 0; i < 2; i++ {
				go func() {
					g.Stop()
					finished <- true
				}()
			}

			for i := 0; i < 2; i++ {
				select {
				case <-finished:
				case <-time.After(time.Second):
					t.Fatal("second stop did not return")
				}
			}
		})
	}
}

func TestSubmitAfterStop(t *testing.T) {
	for name, newGuard := range guards() {
		t.Run(name, func(t *testing.T) {
			g := newGuard()
			g.Stop()

			err := g.Submit(func() {
				t.Error("task ran after stop")
			})
			if !errors.Is(err, ErrStopped) {
				t.Errorf("err = %v, want ErrStopped", err)
			}
		})
	}
}

func TestNoWorkAfterStopReturns(t *testing.T) {
	for name, newGuard := range guards() {
		t.Run(name, func(t *testing.T) {
			g := newGuard()
			var running int32
			for i := 0; i < 16; i++ {
				_ = g.Submit(func() {
					atomic.AddInt32(&running, 1)
					time.Sleep(time.Millisecond)
					atomic.AddInt32(&running, -1)
				})
			}

			g.Stop()
			if n := atomic.LoadInt32(&running); n != 0 {
				t.Errorf("%d tasks still running after stop returned", n)
			}
		})
	}
}

func TestConcurrentSubmit(t *testing.T) {
	for name, newGuard := range guards() {
		t.Run(name, func(t *testing.T) {
			g := newGuard()
			var done int32
			var wg sync.WaitGroup
			for i := 0; i < 4; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < 16; j++ {
						err := g.Submit(func() {
							atomic.AddInt32(&done, 1)
						})
						if err != nil {
							t.Error(err)
							return
						}
					}
				}()
			}

			wg.Wait()
			g.Stop()
			if n := atomic.LoadInt32(&done); n != 64 {
				t.Errorf("done = %d, want 64", n)
			}
		})
	}
}

func TestPoolSizeDefault(t *testing.T) {
	g := NewPool(0)
	defer g.Stop()
	if cap(g.tasks) != DefaultPoolSize {
		t.Errorf("task queue cap = %d, want %d", cap(g.tasks), DefaultPoolSize)
	}
}

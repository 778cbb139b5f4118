package game

import (
	"sync"
	"time"
)

// TimerHandle is a cancellable scheduled callback. Stop is idempotent:
// stopping twice, or stopping after the timer already expired, is a no-op.
type TimerHandle interface {
	Stop()
}

// Scheduler creates the room timers. Injected so tests can drive ticks and
// deadlines by hand.
type Scheduler interface {
	Every(interval time.Duration, fn func()) TimerHandle
	After(delay time.Duration, fn func()) TimerHandle
}

type clockScheduler struct{}

func NewScheduler() Scheduler { return clockScheduler{} }

type repeatingTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (clockScheduler) Every(interval time.Duration, fn func()) TimerHandle {
	t := &repeatingTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				fn()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

func (t *repeatingTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

type oneShotTimer struct {
	timer *time.Timer
	once  sync.Once
}

func (clockScheduler) After(delay time.Duration, fn func()) TimerHandle {
	return &oneShotTimer{timer: time.AfterFunc(delay, fn)}
}

func (t *oneShotTimer) Stop() {
	t.once.Do(func() {
		t.timer.Stop()
	})
}

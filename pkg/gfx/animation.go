package gfx

import (
	"context"
	"sync"
	"time"
)

// TickerScheduler drives frames from a fixed-rate ticker. It is used where
// the host offers no frame callback of its own, e.g. headless runs.
//
// RequestFrame must only be called from frame callbacks or from functions
// passed to Post; Run executes all of them on its own goroutine.
type TickerScheduler struct {
	Interval time.Duration
	MaxTicks uint64 // 0 = run until the context is done

	updates chan func()
	pending []func(time.Time)
	ticks   uint64
	wg      sync.WaitGroup
}

func NewTickerScheduler(interval time.Duration, maxTicks uint64) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{
		Interval: interval,
		MaxTicks: maxTicks,
		updates:  make(chan func(), 1024),
	}
}

func (s *TickerScheduler) RequestFrame(cb func(now time.Time)) {
	s.pending = append(s.pending, cb)
}

// Post queues fn to run on the scheduler goroutine. Safe for concurrent use.
func (s *TickerScheduler) Post(fn func()) {
	s.updates <- fn
}

// Ticks returns the number of ticks fired so far.
func (s *TickerScheduler) Ticks() uint64 {
	return s.ticks
}

// Run fires pending frames on every tick until ctx is done or MaxTicks is
// reached. It returns ctx.Err() on cancellation and nil on the tick limit.
func (s *TickerScheduler) Run(ctx context.Context) error {
	defer s.wg.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticks := make(chan time.Time)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case ticks <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-s.updates:
			upd()
		case now := <-ticks:
			s.fire(now)
			s.ticks++
			if s.MaxTicks > 0 && s.ticks >= s.MaxTicks {
				return nil
			}
		}
	}
}

func (s *TickerScheduler) fire(now time.Time) {
	pending := s.pending
	s.pending = nil
	for _, cb := range pending {
		cb(now)
	}
}

// ManualScheduler fires frames only when told to. Tests use it to control
// frame timestamps exactly.
type ManualScheduler struct {
	pending []func(time.Time)
}

func (s *ManualScheduler) RequestFrame(cb func(now time.Time)) {
	s.pending = append(s.pending, cb)
}

// Fire runs the callbacks pending at call time with now and returns how many
// ran. Callbacks requested while firing wait for the next call.
func (s *ManualScheduler) Fire(now time.Time) int {
	pending := s.pending
	s.pending = nil
	for _, cb := range pending {
		cb(now)
	}
	return len(pending)
}

func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

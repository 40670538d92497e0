package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/status"
)

// DefaultTickInterval is the fixed simulation step
const DefaultTickInterval = 16 * time.Millisecond

// timingWindow is the number of tick durations averaged into engine.tick_ms_avg
const timingWindow = 120

// TickFunc runs one fixed step of length dt
type TickFunc func(dt time.Duration)

// ClockScheduler runs a TickFunc on a fixed interval against a monotonic deadline
// Sleeps max(0, deadline - now) between ticks without busy-waiting
type ClockScheduler struct {
	tick     TickFunc
	clock    TimeSource
	interval time.Duration

	nextTickDeadline time.Time
	tickCount        atomic.Uint64

	// Ring of recent tick durations
	timings    [timingWindow]time.Duration
	timingNext int
	timingLen  int

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Signals a finished tick to an optional observer, never blocks
	tickDone chan struct{}

	// Cached metric pointers
	statTicks   *atomic.Int64
	statTickAvg *status.AtomicFloat
	statTickMax *status.AtomicFloat
}

// NewClockScheduler creates a scheduler, zero interval selects DefaultTickInterval
func NewClockScheduler(tick TickFunc, clock TimeSource, interval time.Duration, reg *status.Registry) *ClockScheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if clock == nil {
		clock = NewTimeProvider()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &ClockScheduler{
		tick:        tick,
		clock:       clock,
		interval:    interval,
		stopChan:    make(chan struct{}),
		tickDone:    make(chan struct{}, 1),
		statTicks:   reg.Ints.Get("engine.ticks"),
		statTickAvg: reg.Floats.Get("engine.tick_ms_avg"),
		statTickMax: reg.Floats.Get("engine.tick_ms_max"),
	}
}

// Interval returns the fixed step
func (cs *ClockScheduler) Interval() time.Duration {
	return cs.interval
}

// TickCount returns the number of ticks run so far
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Ticked receives after each tick, at most one signal is buffered
func (cs *ClockScheduler) Ticked() <-chan struct{} {
	return cs.tickDone
}

// Start runs the loop on its own goroutine until ctx is cancelled or Stop is called
func (cs *ClockScheduler) Start(ctx context.Context) {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(func() {
			defer cs.wg.Done()
			cs.loop(ctx)
		})
	}
}

// Stop halts the loop and waits for the running tick to finish
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
	})
	cs.wg.Wait()
	cs.running.Store(false)
}

// Run blocks in the scheduling loop until ctx is cancelled or Stop is called
func (cs *ClockScheduler) Run(ctx context.Context) {
	if !cs.running.CompareAndSwap(false, true) {
		return
	}
	cs.wg.Add(1)
	defer cs.wg.Done()
	cs.loop(ctx)
}

func (cs *ClockScheduler) loop(ctx context.Context) {
	cs.nextTickDeadline = cs.clock.Now().Add(cs.interval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		default:
		}

		sleepDuration := cs.advance(cs.clock.Now())
		if sleepDuration <= 0 {
			continue
		}

		timer.Reset(sleepDuration)
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		case <-cs.stopChan:
			return
		}
	}
}

// advance runs a tick when the deadline has passed and returns how long to sleep
func (cs *ClockScheduler) advance(now time.Time) time.Duration {
	if now.Before(cs.nextTickDeadline) {
		return nextSleep(cs.nextTickDeadline, now)
	}

	started := cs.clock.Now()
	cs.tick(cs.interval)
	cs.record(cs.clock.Now().Sub(started))

	cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.interval)
	// Resync instead of bursting when far behind
	if now.Sub(cs.nextTickDeadline) > 2*cs.interval {
		cs.nextTickDeadline = now.Add(cs.interval)
	}

	cs.statTicks.Store(int64(cs.tickCount.Add(1)))
	select {
	case cs.tickDone <- struct{}{}:
	default:
	}

	return nextSleep(cs.nextTickDeadline, cs.clock.Now())
}

// record adds one tick duration to the ring and refreshes the metrics
func (cs *ClockScheduler) record(d time.Duration) {
	cs.timings[cs.timingNext] = d
	cs.timingNext = (cs.timingNext + 1) % timingWindow
	if cs.timingLen < timingWindow {
		cs.timingLen++
	}

	var sum time.Duration
	for i := 0; i < cs.timingLen; i++ {
		sum += cs.timings[i]
	}
	ms := float64(d) / float64(time.Millisecond)
	cs.statTickAvg.Set(float64(sum) / float64(cs.timingLen) / float64(time.Millisecond))
	cs.statTickMax.Max(ms)
}

// AverageTick returns the mean of the recorded tick durations, read it after Stop
func (cs *ClockScheduler) AverageTick() time.Duration {
	if cs.timingLen == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < cs.timingLen; i++ {
		sum += cs.timings[i]
	}
	return sum / time.Duration(cs.timingLen)
}

// nextSleep is max(0, deadline - now)
func nextSleep(deadline, now time.Time) time.Duration {
	d := deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

package platformloop

import (
	"errors"
	"time"
)

// tickerRunLoop is a portable [RunLoop] for platforms without a native one
// this package integrates with. It runs timers on the goroutine that called
// Run, sleeping until the earliest deadline. Like CFRunLoopRun, Run returns
// once no valid timer is left.
type tickerRunLoop struct {
	timers  []*tickerTimer
	now     func() time.Time
	sleep   func(time.Duration)
	stopped bool
}

type tickerTimer struct {
	next     time.Time
	fire     func()
	interval time.Duration
	valid    bool
}

func newTickerRunLoop() *tickerRunLoop {
	return &tickerRunLoop{
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Schedule implements RunLoop.
func (l *tickerRunLoop) Schedule(interval time.Duration, fire func()) (Timer, error) {
	if interval <= 0 {
		return nil, errors.New("non-positive timer interval")
	}
	t := &tickerTimer{
		next:     l.now().Add(interval),
		fire:     fire,
		interval: interval,
		valid:    true,
	}
	l.timers = append(l.timers, t)
	return t, nil
}

// Run implements RunLoop.
func (l *tickerRunLoop) Run() error {
	l.stopped = false
	for !l.stopped {
		t := l.earliest()
		if t == nil {
			return nil
		}
		if d := t.next.Sub(l.now()); d > 0 {
			l.sleep(d)
		}
		t.next = t.next.Add(t.interval)
		if now := l.now(); t.next.Before(now) {
			// fell behind, skip the missed fires rather than bursting
			t.next = now.Add(t.interval)
		}
		t.fire()
	}
	return nil
}

// Stop implements RunLoop.
func (l *tickerRunLoop) Stop() {
	l.stopped = true
}

// earliest returns the valid timer due first, dropping invalidated ones.
func (l *tickerRunLoop) earliest() *tickerTimer {
	var first *tickerTimer
	timers := l.timers[:0]
	for _, t := range l.timers {
		if !t.valid {
			continue
		}
		timers = append(timers, t)
		if first == nil || t.next.Before(first.next) {
			first = t
		}
	}
	clear(l.timers[len(timers):])
	l.timers = timers
	return first
}

// Invalidate implements Timer.
func (t *tickerTimer) Invalidate() {
	t.valid = false
}

// Valid implements Timer.
func (t *tickerTimer) Valid() bool {
	return t.valid
}

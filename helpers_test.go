package platformloop

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
)

// testEvent is a minimal logiface.Event implementation that records what
// was logged.
type testEvent struct {
	logiface.UnimplementedEvent
	fields map[string]any
	msg    string
	level  logiface.Level
}

func (e *testEvent) Level() logiface.Level { return e.level }

func (e *testEvent) AddField(key string, val any) {
	if e.fields == nil {
		e.fields = make(map[string]any)
	}
	e.fields[key] = val
}

func (e *testEvent) AddMessage(msg string) bool {
	e.msg = msg
	return true
}

// testEventFactory creates testEvent instances.
type testEventFactory struct{}

func (f *testEventFactory) NewEvent(level logiface.Level) *testEvent {
	return &testEvent{level: level}
}

// logSink collects written events.
type logSink struct {
	events []*testEvent
	mu     sync.Mutex
}

func (s *logSink) Write(event *testEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// messages returns the messages logged at level.
func (s *logSink) messages(level logiface.Level) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, e := range s.events {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

func (s *logSink) has(level logiface.Level, msg string) bool {
	return slices.Contains(s.messages(level), msg)
}

// newTestLogger returns a logger recording every level into the sink.
func newTestLogger() (*logiface.Logger[logiface.Event], *logSink) {
	sink := &logSink{}
	logger := logiface.New[*testEvent](
		logiface.WithEventFactory[*testEvent](&testEventFactory{}),
		logiface.WithWriter[*testEvent](sink),
		logiface.WithLevel[*testEvent](logiface.LevelTrace),
	)
	return logger.Logger(), sink
}

var errTestPoll = errors.New("test poll failure")

// fakeRuntime is a RuntimeHandle counting polls.
type fakeRuntime struct {
	// onPoll runs inside PollOnce, after the count is incremented
	onPoll func(n int)
	// failAt makes the failAt-th poll return errTestPoll (1-based; 0 = never)
	failAt int
	// doneAt makes Done report true from the doneAt-th poll (0 = never)
	doneAt int
	polls  int
	mu     sync.Mutex
}

func (r *fakeRuntime) PollOnce() error {
	r.mu.Lock()
	r.polls++
	n := r.polls
	onPoll := r.onPoll
	r.mu.Unlock()
	if onPoll != nil {
		onPoll(n)
	}
	if r.failAt > 0 && n == r.failAt {
		return errTestPoll
	}
	return nil
}

func (r *fakeRuntime) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doneAt > 0 && r.polls >= r.doneAt
}

func (r *fakeRuntime) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}

// fakeHandler is a Handler on a virtual clock. Callbacks run only from
// Advance, in deadline order, on the calling goroutine.
type fakeHandler struct {
	now     time.Duration
	pending []pendingCallback
	seq     int
}

type pendingCallback struct {
	fn  func()
	at  time.Duration
	seq int
}

func (h *fakeHandler) Post(fn func()) {
	h.PostDelayed(fn, 0)
}

func (h *fakeHandler) PostDelayed(fn func(), delay time.Duration) {
	h.seq++
	h.pending = append(h.pending, pendingCallback{fn: fn, at: h.now + delay, seq: h.seq})
}

// Advance moves the clock forward by d, running every callback due.
func (h *fakeHandler) Advance(d time.Duration) {
	end := h.now + d
	for {
		i := h.next(end)
		if i < 0 {
			break
		}
		cb := h.pending[i]
		h.pending = slices.Delete(h.pending, i, i+1)
		h.now = cb.at
		cb.fn()
	}
	h.now = end
}

// Flush runs the callbacks due now.
func (h *fakeHandler) Flush() {
	h.Advance(0)
}

// Pending returns the number of queued callbacks.
func (h *fakeHandler) Pending() int {
	return len(h.pending)
}

func (h *fakeHandler) next(end time.Duration) int {
	best := -1
	for i, cb := range h.pending {
		if cb.at > end {
			continue
		}
		if best < 0 || cb.at < h.pending[best].at ||
			(cb.at == h.pending[best].at && cb.seq < h.pending[best].seq) {
			best = i
		}
	}
	return best
}

package progress

import (
	"sync"
	"time"
)

// FrameInterval is the frame period of FrameScheduler.
const FrameInterval = 16 * time.Millisecond

// Scheduler runs a callback before the next frame.
type Scheduler interface {
	// RequestFrame schedules fn and returns a function that cancels it.
	RequestFrame(fn func()) (cancel func())
}

// FrameScheduler is a Scheduler backed by timers firing after one frame.
type FrameScheduler struct {
	Interval time.Duration // FrameInterval when zero
}

// RequestFrame implements Scheduler.
func (s FrameScheduler) RequestFrame(fn func()) func() {
	d := s.Interval
	if d <= 0 {
		d = FrameInterval
	}
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Tracker keeps the reading progress of one page current as scroll and
// resize events arrive. Scroll bursts are coalesced into at most one
// computation per frame; resizes recompute immediately.
type Tracker struct {
	measure   func() Metrics
	scheduler Scheduler
	onChange  func(float64)

	mu       sync.Mutex
	progress float64
	pending  bool
	cancel   func()
	closed   bool
}

// NewTracker creates a Tracker and computes the initial progress.
// onChange, when non-nil, is called with every new value.
func NewTracker(measure func() Metrics, scheduler Scheduler, onChange func(float64)) *Tracker {
	if scheduler == nil {
		scheduler = FrameScheduler{}
	}
	t := &Tracker{measure: measure, scheduler: scheduler, onChange: onChange}
	t.update()
	return t
}

// Scroll records a scroll event. Only the first event since the last
// computation schedules a frame; the rest are absorbed by it.
func (t *Tracker) Scroll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.pending {
		return
	}
	t.pending = true
	t.cancel = t.scheduler.RequestFrame(t.frame)
}

// Resize records a viewport resize and recomputes immediately.
func (t *Tracker) Resize() {
	t.update()
}

// Progress returns the latest computed value.
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Close cancels any scheduled frame. Events after Close are ignored.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.pending = false
}

func (t *Tracker) frame() {
	t.mu.Lock()
	t.pending = false
	t.cancel = nil
	t.mu.Unlock()

	t.update()
}

func (t *Tracker) update() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	p := Compute(t.measure())
	t.progress = p
	onChange := t.onChange
	t.mu.Unlock()

	if onChange != nil {
		onChange(p)
	}
}

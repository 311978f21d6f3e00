package progress

import (
	"sync"
	"testing"
	"time"
)

// manualScheduler queues frames until flush is called.
type manualScheduler struct {
	mu       sync.Mutex
	frames   []func()
	requests int
	cancels  int
}

func (s *manualScheduler) RequestFrame(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	idx := len(s.frames)
	s.frames = append(s.frames, fn)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.cancels++
		s.frames[idx] = nil
	}
}

func (s *manualScheduler) flush() {
	s.mu.Lock()
	frames := s.frames
	s.frames = nil
	s.mu.Unlock()
	for _, fn := range frames {
		if fn != nil {
			fn()
		}
	}
}

// page is a mutable metrics source.
type page struct {
	mu sync.Mutex
	m  Metrics
}

func (p *page) measure() Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m
}

func (p *page) scrollTo(top float64) {
	p.mu.Lock()
	p.m.ScrollTop = top
	p.mu.Unlock()
}

func TestTracker_InitialValue(t *testing.T) {
	t.Parallel()

	pg := &page{m: Metrics{ScrollTop: 250, DocumentHeight: 2000, ViewportHeight: 1000}}
	var got []float64
	tr := NewTracker(pg.measure, &manualScheduler{}, func(p float64) { got = append(got, p) })

	if tr.Progress() != 0.25 {
		t.Errorf("initial Progress() = %v, want 0.25", tr.Progress())
	}
	if len(got) != 1 || got[0] != 0.25 {
		t.Errorf("onChange calls = %v, want [0.25]", got)
	}
}

func TestTracker_ScrollCoalescing(t *testing.T) {
	t.Parallel()

	pg := &page{m: Metrics{DocumentHeight: 2000, ViewportHeight: 1000}}
	sched := &manualScheduler{}
	calls := 0
	tr := NewTracker(pg.measure, sched, func(float64) { calls++ })

	for _, top := range []float64{100, 200, 300, 400} {
		pg.scrollTo(top)
		tr.Scroll()
	}
	if sched.requests != 1 {
		t.Errorf("frame requests = %d, want 1 for a burst", sched.requests)
	}
	if tr.Progress() != 0 {
		t.Errorf("progress changed before the frame: %v", tr.Progress())
	}

	sched.flush()
	if tr.Progress() != 0.4 {
		t.Errorf("Progress() = %v, want 0.4 (latest position)", tr.Progress())
	}
	if calls != 2 {
		t.Errorf("onChange calls = %d, want 2 (initial + one frame)", calls)
	}

	// A new burst after the frame schedules a new frame.
	pg.scrollTo(1000)
	tr.Scroll()
	if sched.requests != 2 {
		t.Errorf("frame requests = %d, want 2", sched.requests)
	}
	sched.flush()
	if tr.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", tr.Progress())
	}
}

func TestTracker_ResizeIsImmediate(t *testing.T) {
	t.Parallel()

	pg := &page{m: Metrics{ScrollTop: 500, DocumentHeight: 2000, ViewportHeight: 1000}}
	sched := &manualScheduler{}
	tr := NewTracker(pg.measure, sched, nil)

	pg.mu.Lock()
	pg.m.ViewportHeight = 1500
	pg.mu.Unlock()
	tr.Resize()

	if tr.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1 after resize", tr.Progress())
	}
	if sched.requests != 0 {
		t.Errorf("resize should not schedule frames, requests = %d", sched.requests)
	}
}

func TestTracker_CloseCancelsPendingFrame(t *testing.T) {
	t.Parallel()

	pg := &page{m: Metrics{DocumentHeight: 2000, ViewportHeight: 1000}}
	sched := &manualScheduler{}
	calls := 0
	tr := NewTracker(pg.measure, sched, func(float64) { calls++ })

	pg.scrollTo(500)
	tr.Scroll()
	tr.Close()

	if sched.cancels != 1 {
		t.Errorf("cancels = %d, want 1", sched.cancels)
	}
	sched.flush()
	tr.Scroll()
	tr.Resize()

	if calls != 1 {
		t.Errorf("onChange calls after Close = %d, want only the initial one", calls)
	}
	if sched.requests != 1 {
		t.Errorf("scroll after Close scheduled a frame")
	}
}

func TestFrameScheduler(t *testing.T) {
	t.Parallel()

	fired := make(chan struct{}, 1)
	FrameScheduler{Interval: time.Millisecond}.RequestFrame(func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("frame never fired")
	}

	cancelled := make(chan struct{}, 1)
	cancel := FrameScheduler{Interval: 50 * time.Millisecond}.RequestFrame(func() { cancelled <- struct{}{} })
	cancel()

	select {
	case <-cancelled:
		t.Error("cancelled frame fired")
	case <-time.After(100 * time.Millisecond):
	}
}

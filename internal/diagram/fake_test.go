package diagram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
)

var errSyntax = errors.New("syntax error in graph")

// fakeEngine renders "<svg>source</svg>" and fails on sources containing
// "invalid". Renders block while gate is non-nil and open.
type fakeEngine struct {
	inits   atomic.Int32
	renders atomic.Int32
	closed  atomic.Bool

	initErr   error
	renderErr error
	gate      chan struct{}
	panicOn   string

	mu  sync.Mutex
	ids []string
}

func (f *fakeEngine) Init(ctx context.Context) error {
	f.inits.Add(1)
	return f.initErr
}

func (f *fakeEngine) Render(ctx context.Context, id, source string) (string, error) {
	f.renders.Add(1)
	f.mu.Lock()
	f.ids = append(f.ids, id)
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.panicOn != "" && strings.Contains(source, f.panicOn) {
		panic("engine exploded")
	}
	if f.renderErr != nil {
		return "", f.renderErr
	}
	if strings.Contains(source, "invalid") {
		return "", errSyntax
	}
	return "<svg>" + source + "</svg>", nil
}

func (f *fakeEngine) Close() error {
	f.closed.Store(true)
	return nil
}

func newTestRenderer(t interface{ Fatalf(string, ...any) }, engine Engine) *Renderer {
	r, err := NewRenderer(Config{Engine: engine})
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	return r
}

// memStore is an in-memory Store that can be made to fail.
type memStore struct {
	mu      sync.Mutex
	data    map[string]string
	failGet bool
	failPut bool
}

func newMemStore() *memStore { return &memStore{data: make(map[string]string)} }

func (s *memStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errors.New("disk on fire")
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Put(ctx context.Context, key, markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return errors.New("disk full")
	}
	s.data[key] = markup
	return nil
}

func (s *memStore) Close() error { return nil }

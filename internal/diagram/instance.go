package diagram

import (
	"context"
	"sync"
)

// State is the lifecycle stage of a mounted diagram.
type State int

// Diagram states. Rendered and Errored are terminal.
const (
	StatePending State = iota
	StateLoading
	StateRendered
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateRendered:
		return "rendered"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateRendered || s == StateErrored
}

// Instance is one mounted diagram. It starts Pending, or Rendered when its
// markup is already cached, and renders at most once.
type Instance struct {
	r      *Renderer
	key    string
	source string

	mu     sync.Mutex
	state  State
	markup string
	err    error
	done   chan struct{}
}

// Mount creates an Instance for source. A cache hit produces an instance
// that is already Rendered.
func (r *Renderer) Mount(ctx context.Context, source string) *Instance {
	inst := &Instance{
		r:      r,
		key:    Key(source),
		source: source,
		done:   make(chan struct{}),
	}
	if markup, ok := r.cache.Get(ctx, inst.key); ok {
		inst.state = StateRendered
		inst.markup = markup
		close(inst.done)
	}
	return inst
}

// Observe signals that the diagram came near the viewport. The first call
// on a Pending instance moves it to Loading and starts rendering in the
// background; every other call is a no-op.
func (i *Instance) Observe() {
	i.mu.Lock()
	if i.state != StatePending {
		i.mu.Unlock()
		return
	}
	i.state = StateLoading
	i.mu.Unlock()

	go i.load()
}

func (i *Instance) load() {
	res, err := i.r.Render(context.Background(), i.source)

	i.mu.Lock()
	defer i.mu.Unlock()
	if err != nil {
		i.state = StateErrored
		i.err = err
	} else {
		i.state = StateRendered
		i.markup = res.Markup
	}
	close(i.done)
}

// Wait blocks until the instance reaches a terminal state or ctx ends, and
// returns the state at that moment. A Pending instance that is never
// observed only returns when ctx ends.
func (i *Instance) Wait(ctx context.Context) (State, error) {
	select {
	case <-i.done:
		i.mu.Lock()
		defer i.mu.Unlock()
		return i.state, i.err
	case <-ctx.Done():
		return i.State(), ctx.Err()
	}
}

// Key returns the cache key of the instance's source.
func (i *Instance) Key() string { return i.key }

// State returns the current state.
func (i *Instance) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Markup returns the rendered SVG, empty unless Rendered.
func (i *Instance) Markup() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.markup
}

// Err returns the render error, nil unless Errored.
func (i *Instance) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// HTML returns the markup to display for the current state. Pending and
// Loading instances display the on-demand placeholder served from endpoint.
func (i *Instance) HTML(endpoint string) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	switch i.state {
	case StateRendered:
		return FigureHTML(i.key, i.markup)
	case StateErrored:
		return ErrorHTML(i.key)
	default:
		return PlaceholderHTML(i.key, endpoint)
	}
}

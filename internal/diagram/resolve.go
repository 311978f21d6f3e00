package diagram

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ResolveOptions controls how a document's diagrams are resolved.
type ResolveOptions struct {
	// Lazy leaves uncached diagrams as placeholders served from Endpoint
	// instead of rendering them now.
	Lazy     bool
	Endpoint string
	// Concurrency bounds simultaneous renders; GOMAXPROCS when <= 0.
	Concurrency int
}

// Outcome is the resolution of one diagram of a document.
type Outcome struct {
	Index int
	Key   string
	State State
	HTML  string // markup to substitute for the diagram
	Err   error  // render error when State is StateErrored
}

// Resolve resolves every source of a document, in input order. A failed
// diagram yields an errored outcome with the inline error block and never
// affects its siblings. Only cancellation of ctx aborts the resolution.
func (r *Renderer) Resolve(ctx context.Context, sources []string, opts ResolveOptions) ([]Outcome, error) {
	outcomes := make([]Outcome, len(sources))
	if len(sources) == 0 {
		return outcomes, nil
	}

	if opts.Lazy {
		for i, src := range sources {
			inst := r.Mount(ctx, src)
			if inst.State() == StatePending {
				r.Register(src)
			}
			outcomes[i] = outcome(i, inst, opts.Endpoint)
		}
		return outcomes, ctx.Err()
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, src := range sources {
		g.Go(func() error {
			inst := r.Mount(gctx, src)
			inst.Observe()
			if _, err := inst.Wait(gctx); err != nil && !inst.State().Terminal() {
				return err
			}
			outcomes[i] = outcome(i, inst, opts.Endpoint)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func outcome(i int, inst *Instance, endpoint string) Outcome {
	return Outcome{
		Index: i,
		Key:   inst.Key(),
		State: inst.State(),
		HTML:  inst.HTML(endpoint),
		Err:   inst.Err(),
	}
}

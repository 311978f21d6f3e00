package diagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DefaultSourceTTL is how long a registered lazy source stays resolvable
// after its last registration.
const DefaultSourceTTL = time.Hour

// Config configures a Renderer.
type Config struct {
	Engine    Engine         // required
	Cache     *Cache         // in-memory cache of DefaultCacheSize when nil
	Logger    *logrus.Logger // discarded when nil
	Timeout   time.Duration  // bound of one engine call, DefaultEngineTimeout when zero
	SourceTTL time.Duration  // lazy source registry expiry, DefaultSourceTTL when zero
}

// Result is a rendered diagram.
type Result struct {
	Key    string
	Markup string // SVG produced by the engine
	Cached bool   // served from the cache without an engine call
}

// Renderer renders diagram sources through an Engine. It is safe for
// concurrent use.
type Renderer struct {
	engine  Engine
	cache   *Cache
	log     *logrus.Logger
	timeout time.Duration

	initEngine func() error
	flights    singleflight.Group
	sources    *gocache.Cache
	newID      func() string
}

// NewRenderer creates a Renderer. The engine is initialized on first use.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("%w: no engine configured", ErrEngineInit)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}
	ttl := cfg.SourceTTL
	if ttl <= 0 {
		ttl = DefaultSourceTTL
	}
	cache := cfg.Cache
	if cache == nil {
		var err error
		if cache, err = NewCache(DefaultCacheSize, nil, logger); err != nil {
			return nil, err
		}
	}

	r := &Renderer{
		engine:  cfg.Engine,
		cache:   cache,
		log:     logger,
		timeout: timeout,
		sources: gocache.New(ttl, 2*ttl),
		newID:   func() string { return "diagram-" + uuid.NewString() },
	}
	r.initEngine = sync.OnceValue(r.init)
	return r, nil
}

// init runs the engine's one-time setup. A failed setup is not retried:
// every later render reports the same error.
func (r *Renderer) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	start := time.Now()
	if err := r.engine.Init(ctx); err != nil {
		r.log.WithFields(logrus.Fields{"error": err}).Error("diagram engine initialization failed")
		return fmt.Errorf("%w: %w", ErrEngineInit, err)
	}
	r.log.WithFields(logrus.Fields{"duration": time.Since(start)}).Debug("diagram engine initialized")
	return nil
}

// Render returns the markup for source, rendering it on a cache miss.
//
// Concurrent calls for the same source share one engine call. The engine
// call is detached from ctx: cancelling ctx makes this call return early
// but the render completes and is cached for later callers.
func (r *Renderer) Render(ctx context.Context, source string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	key := Key(source)
	if markup, ok := r.cache.Get(ctx, key); ok {
		return Result{Key: key, Markup: markup, Cached: true}, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := r.flights.DoChan(key, func() (any, error) {
		return r.render(detached, key, source)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return Result{Key: key, Markup: res.Val.(string)}, nil
	}
}

// render performs one engine call and caches its output. Panics raised by
// the engine are returned as errors.
func (r *Renderer) render(ctx context.Context, key, source string) (markup string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRender, p)
			r.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("diagram render panicked")
		}
	}()

	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: %w", ErrRender, ErrEmptySource)
	}

	if err := r.initEngine(); err != nil {
		return "", renderError(err)
	}

	// A flight for this key may have finished between the caller's miss and now.
	if markup, ok := r.cache.Get(ctx, key); ok {
		return markup, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	markup, err = r.engine.Render(ctx, r.newID(), source)
	if err != nil {
		r.log.WithFields(logrus.Fields{"key": key, "error": err}).Error("diagram render failed")
		return "", renderError(err)
	}

	r.cache.Add(ctx, key, markup)
	r.log.WithFields(logrus.Fields{"key": key, "duration": time.Since(start)}).Debug("diagram rendered")
	return markup, nil
}

// renderError marks err as a render failure, keeping the sentinels it
// already wraps.
func renderError(err error) error {
	if errors.Is(err, ErrRender) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRender, err)
}

// Lookup returns cached markup for key without rendering.
func (r *Renderer) Lookup(ctx context.Context, key string) (string, bool) {
	return r.cache.Get(ctx, key)
}

// Register records source so that it can later be rendered by key, and
// returns that key.
func (r *Renderer) Register(source string) string {
	key := Key(source)
	r.sources.SetDefault(key, source)
	return key
}

// Source returns the source registered under key.
func (r *Renderer) Source(key string) (string, bool) {
	v, ok := r.sources.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// RenderKey renders a diagram by key: cached markup first, then the
// registered source. Unknown keys return ErrNotFound.
func (r *Renderer) RenderKey(ctx context.Context, key string) (Result, error) {
	if markup, ok := r.cache.Get(ctx, key); ok {
		return Result{Key: key, Markup: markup, Cached: true}, nil
	}
	source, ok := r.Source(key)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return r.Render(ctx, source)
}

// Close releases the engine.
func (r *Renderer) Close() error {
	return r.engine.Close()
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

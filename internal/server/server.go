package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// ErrListen reports an address the server cannot listen on.
var ErrListen = errors.New("cannot listen")

// Defaults used when Config leaves a field zero.
const (
	DefaultAddr            = "localhost:8080"
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	// Diagram keys are content hashes, so a rendered figure never changes.
	immutableCache = "public, max-age=31536000, immutable"
)

// Config configures a Server.
type Config struct {
	Addr            string         // listen address, DefaultAddr when empty
	CORSOrigins     []string       // origins allowed to fetch diagrams, none when empty
	DiagramRate     float64        // diagram requests per second per client, unlimited when zero
	DiagramBurst    int            // diagram request burst per client
	ShutdownTimeout time.Duration  // grace period for in-flight requests
	Logger          *logrus.Logger // discarded when nil
}

// Server serves a Site over HTTP.
type Server struct {
	cfg     Config
	site    Site
	log     *logrus.Logger
	handler http.Handler
}

// New creates a Server for site.
func New(site Site, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	s := &Server{cfg: cfg, site: site, log: logger}
	s.handler = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests(s.log))
	r.Use(middleware.StripSlashes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/blog", http.StatusFound)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/blog", s.handleIndex)
	r.Get("/blog/tags/{tag}", s.handleTag)
	r.Get("/blog/{id}", s.handleArticle)
	r.Get("/assets/{name}", s.handleAsset)

	r.Group(func(r chi.Router) {
		if len(s.cfg.CORSOrigins) > 0 {
			r.Use(cors.New(cors.Options{
				AllowedOrigins: s.cfg.CORSOrigins,
				AllowedMethods: []string{http.MethodGet},
				MaxAge:         300,
			}).Handler)
		}
		if s.cfg.DiagramRate > 0 {
			r.Use(limitRequests(newRateLimiter(s.cfg.DiagramRate, s.cfg.DiagramBurst)))
		}
		r.Get("/diagrams/{key}", s.handleDiagram)
	})

	r.NotFound(s.handleNotFound)
	return r
}

// ListenAndServe listens on the configured address and serves until ctx is
// done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrListen, s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then waits up to the shutdown
// timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := s.site.Index(r.Context(), IndexQuery{Tag: query.Get("tag"), Search: query.Get("q")})
	s.writePage(w, r, page, err)
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	page, err := s.site.Index(r.Context(), IndexQuery{Tag: chi.URLParam(r, "tag"), Search: r.URL.Query().Get("q")})
	s.writePage(w, r, page, err)
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	page, err := s.site.Article(r.Context(), chi.URLParam(r, "id"))
	s.writePage(w, r, page, err)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeNotFound(w, r)
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	asset, ok := s.site.Asset(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(asset.Body)
}

func (s *Server) handleDiagram(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	markup, err := s.site.Diagram(r.Context(), key)

	switch {
	case errors.Is(err, ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing to answer.
	case err != nil && markup != "":
		s.log.WithFields(logrus.Fields{
			"request_id": RequestID(r.Context()),
			"key":        key,
			"error":      err,
		}).Warn("diagram rendering failed")
		w.Header().Set("Content-Type", contentTypeHTML)
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, markup)
	case err != nil:
		s.serverError(w, r, err)
	default:
		w.Header().Set("Content-Type", contentTypeHTML)
		w.Header().Set("Cache-Control", immutableCache)
		_, _ = io.WriteString(w, markup)
	}
}

// writePage writes a rendered page, the not-found page for ErrNotFound, or
// a 500 for any other error.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, page []byte, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		s.writeNotFound(w, r)
	case err != nil:
		s.serverError(w, r, err)
	default:
		w.Header().Set("Content-Type", contentTypeHTML)
		_, _ = w.Write(page)
	}
}

func (s *Server) writeNotFound(w http.ResponseWriter, r *http.Request) {
	page, err := s.site.NotFound(r.Context())
	if err != nil {
		s.log.WithFields(logrus.Fields{"request_id": RequestID(r.Context()), "error": err}).Error("rendering not-found page")
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(page)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.WithFields(logrus.Fields{
		"request_id": RequestID(r.Context()),
		"path":       r.URL.Path,
		"error":      err,
	}).Error("request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/perisailabs/perisai/internal/cache"
	"github.com/perisailabs/perisai/internal/compare"
	"github.com/perisailabs/perisai/internal/model"
	"github.com/perisailabs/perisai/internal/normalize"
	"github.com/perisailabs/perisai/internal/reputation"
	"github.com/perisailabs/perisai/internal/route"
)

// Server exposes the comparison engine, knowledge router, and catalog
// over HTTP. All serialization lives here; the engine stays I/O-free.
type Server struct {
	cfg        model.ServerConfig
	log        *zap.Logger
	engine     *compare.Engine
	normalizer *normalize.Normalizer
	classifier route.Classifier
	ratings    reputation.Source
	catalog    []normalize.RawRecord
	responses  cache.Cache
	limiter    *rate.Limiter
}

// Options carries the server's collaborators. Zero values get workable
// defaults: nil config uses DefaultConfig, a nil ratings source rates
// nobody, a nil logger is silenced.
type Options struct {
	Config  *model.Config
	Logger  *zap.Logger
	Ratings reputation.Source
	Catalog []normalize.RawRecord
}

// New builds a Server from options.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ratings := opts.Ratings
	if ratings == nil {
		ratings = reputation.NewLayered()
	}

	return &Server{
		cfg:        cfg.Server,
		log:        log,
		engine:     compare.New(cfg),
		normalizer: normalize.New(),
		classifier: route.NewKeywordClassifier(cfg.Router),
		ratings:    ratings,
		catalog:    opts.Catalog,
		responses:  cache.NewMemoryCache(cfg.Server.CacheTTL),
		limiter:    rate.NewLimiter(rate.Limit(cfg.Server.RequestsPerSecond), cfg.Server.Burst),
	}
}

// Handler assembles the chi router with the middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.rateLimitMiddleware)
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compare", s.handleCompare)
		r.Post("/route", s.handleRoute)
		r.Get("/policies", s.handlePolicies)
	})

	return r
}

// Run serves until ctx is cancelled, then drains connections within the
// configured shutdown window.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("server listening", zap.String("addr", s.cfg.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.log.Info("server draining", zap.Duration("window", s.cfg.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	}
}

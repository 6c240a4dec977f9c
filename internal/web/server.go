package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rohmanhakim/newsguard/internal/scan"
)

/*
Responsibilities

- Serve the scan form and render results or errors
- Expose cache size and clearing
- Expose health and Prometheus metrics

The server is only a caller of the Scanner; every scan rule lives there.
*/

// Scanner is the scan entry point the handlers drive.
type Scanner interface {
	Scan(ctx context.Context, rawURL string) (scan.Result, *scan.ScanError)
}

// CacheControl is the cache surface exposed to users.
type CacheControl interface {
	GetCacheSize() int
	ClearCache()
}

type Server struct {
	scanner   Scanner
	cache     CacheControl
	templates *Templates
	metrics   http.Handler
	logger    zerolog.Logger
	router    chi.Router
}

// NewServer wires the routes. metricsHandler may be nil, in which case
// /metrics is not mounted.
func NewServer(
	scanner Scanner,
	cache CacheControl,
	metricsHandler http.Handler,
	logger zerolog.Logger,
) (*Server, error) {
	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		scanner:   scanner,
		cache:     cache,
		templates: templates,
		metrics:   metricsHandler,
		logger:    logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/scan", s.handleScan)
	r.Post("/cache/clear", s.handleClearCache)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cache", s.handleCacheSize)
		r.Post("/scan", s.handleAPIScan)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("web client listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Debug().
					Str("request_id", chiMiddleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("http request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

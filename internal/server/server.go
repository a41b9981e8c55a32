package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/coah80/docxify/internal/alerts"
	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/middleware"
	"github.com/coah80/docxify/internal/routes"
	"github.com/coah80/docxify/internal/services"
	"github.com/coah80/docxify/internal/util"
	"github.com/coah80/docxify/internal/web"
)

// Server owns every long-lived component of the HTTP service.
type Server struct {
	HTTP      *http.Server
	Converter *services.Converter
	Sweeper   *services.Sweeper
	Alerts    *alerts.Notifier
	Limiter   *middleware.RateLimiter

	cfg config.Config
}

func New(cfg config.Config) (*Server, error) {
	if err := util.EnsureDirs(cfg.UploadDir, cfg.ConvertedDir); err != nil {
		return nil, err
	}

	landing, err := web.Landing()
	if err != nil {
		return nil, fmt.Errorf("parse landing page: %w", err)
	}
	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("load static assets: %w", err)
	}

	notifier := alerts.New(cfg)
	sweeper := services.NewSweeper(cfg)
	sweeper.OnLowDisk = notifier.LowDiskSpace
	converter := services.NewConverter(cfg)
	limiter := middleware.NewRateLimiter(config.RateLimitWindow, cfg.RateLimitMax)

	h := routes.NewHandler(cfg, routes.Deps{
		Stager:      services.NewStager(cfg),
		Converter:   converter,
		Sweeper:     sweeper,
		Alerts:      notifier,
		Landing:     landing,
		Static:      static,
		UploadLimit: limiter.Handler,
	})

	return &Server{
		HTTP: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           NewRouter(cfg, h),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       0,
			WriteTimeout:      0,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		Converter: converter,
		Sweeper:   sweeper,
		Alerts:    notifier,
		Limiter:   limiter,
		cfg:       cfg,
	}, nil
}

func NewRouter(cfg config.Config, h *routes.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(securityHeaders)
	r.Use(middleware.LoadCORS())

	h.Register(r)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.Limiter.StartCleanup(ctx)
	s.Sweeper.Start(ctx, s.cfg.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	s.Alerts.ServerStarted(s.HTTP.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Alerts.ServerStopping()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.HTTP.Shutdown(shutdownCtx)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func PrintBanner(cfg config.Config) {
	fmt.Printf(`
  ┌──────────────────────────────────┐
  │         docxify %s           │
  │     pdf to word converter api    │
  └──────────────────────────────────┘
  listening on %s (debug=%t)
`, padVersion(config.Version), cfg.Addr(), cfg.Debug)
}

func padVersion(v string) string {
	for len(v) < 10 {
		v += " "
	}
	return v
}

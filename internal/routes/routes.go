package routes

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/coah80/docxify/internal/alerts"
	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/services"
)

const uploadField = "pdf_file"

type converter interface {
	Convert(ctx context.Context, inputPath, outputPath string) (string, error)
}

type sweeper interface {
	Sweep(now time.Time) services.SweepReport
}

// Deps are the collaborators the handlers orchestrate.
type Deps struct {
	Stager    *services.Stager
	Converter converter
	Sweeper   sweeper
	Alerts    *alerts.Notifier
	Landing   *template.Template
	Static    fs.FS

	// UploadLimit wraps POST /convert, typically a rate limiter.
	UploadLimit func(http.Handler) http.Handler
}

type Handler struct {
	cfg       config.Config
	stager    *services.Stager
	converter converter
	sweeper   sweeper
	alerts    *alerts.Notifier
	landing   *template.Template
	static    fs.FS
	limit     func(http.Handler) http.Handler
	now       func() time.Time
}

func NewHandler(cfg config.Config, d Deps) *Handler {
	h := &Handler{
		cfg:       cfg,
		stager:    d.Stager,
		converter: d.Converter,
		sweeper:   d.Sweeper,
		alerts:    d.Alerts,
		landing:   d.Landing,
		static:    d.Static,
		limit:     d.UploadLimit,
		now:       time.Now,
	}
	if h.stager == nil {
		h.stager = services.NewStager(cfg)
	}
	if h.limit == nil {
		h.limit = func(next http.Handler) http.Handler { return next }
	}
	return h
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.guard(http.StatusOK, h.handleIndex))
	r.With(h.limit).Post("/convert", h.guard(http.StatusOK, h.handleConvert))
	r.Get("/download/{filename}", h.guard(http.StatusInternalServerError, h.handleDownload))
	r.Post("/cleanup", h.guard(http.StatusOK, h.handleCleanup))
	r.Get("/health", h.handleHealth)

	if h.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.static))))
	}
}

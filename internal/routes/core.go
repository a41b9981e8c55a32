package routes

import (
	"bytes"
	"log"
	"net/http"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/web"
)

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if h.landing == nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	err := h.landing.Execute(&buf, web.Page{
		Service:   config.ServiceName,
		Version:   config.Version,
		MaxSizeMB: h.cfg.MaxUploadBytes / (1024 * 1024),
		FieldName: uploadField,
	})
	if err != nil {
		log.Printf("[Index] template failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": config.ServiceName,
	})
}

func (h *Handler) handleCleanup(w http.ResponseWriter, r *http.Request) {
	report := h.sweeper.Sweep(h.now())
	log.Printf("[Cleanup] Manual sweep: %d scanned, %d removed, %d failures",
		report.Scanned, report.Removed, len(report.Failures))

	removed := report.Removed
	respondJSON(w, http.StatusOK, result{
		Success: true,
		Message: "Cleanup completed",
		Removed: &removed,
	})
}

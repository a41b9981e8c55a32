package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/coah80/docxify/internal/util"
)

type result struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	DownloadURL string `json:"download_url,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Removed     *int   `json:"removed,omitempty"`
}

func failure(format string, args ...interface{}) result {
	return result{Success: false, Message: fmt.Sprintf(format, args...)}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// userMessage prefers the message of a *util.Error over the wrapped cause.
func userMessage(err error) string {
	var e *util.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// guard turns a panic inside fn into a JSON failure with the given status.
func (h *Handler) guard(status int, fn http.HandlerFunc) http.HandlerFunc {
	prefix := "Server error"
	if status >= 500 {
		prefix = "Download error"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("[Panic] %s %s: %v", r.Method, r.URL.Path, rec)
			if h.cfg.Debug {
				log.Printf("%s", debug.Stack())
			}
			respondJSON(w, status, failure("%s: %v", prefix, rec))
		}()
		fn(w, r)
	}
}

func toASCIIFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E && r != '"' && r != '\\' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

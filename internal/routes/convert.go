package routes

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/coah80/docxify/internal/config"
	"github.com/coah80/docxify/internal/util"
)

const multipartMemory = 32 << 20

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondJSON(w, http.StatusRequestEntityTooLarge, failure(
				"File too large. Maximum size is %dMB", h.cfg.MaxUploadBytes/(1024*1024)))
			return
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			respondJSON(w, http.StatusOK, failure("No file uploaded"))
			return
		}
		respondJSON(w, http.StatusOK, failure("Server error: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, present := formFile(r, uploadField)
	if err := util.ValidateUpload(header, present, h.cfg.AllowedExts).Err(); err != nil {
		if file != nil {
			file.Close()
		}
		log.Printf("[Convert] upload rejected (%s): %v", util.KindOf(err), err)
		respondJSON(w, http.StatusOK, failure("%s", userMessage(err)))
		return
	}
	defer file.Close()

	staged, err := h.stager.Stage(file, header.Filename)
	if err != nil {
		log.Printf("[Convert] staging %q failed: %v", header.Filename, err)
		respondJSON(w, http.StatusOK, failure("Server error: %s", userMessage(err)))
		return
	}
	defer util.RemoveQuiet(staged.StagingPath)

	log.Printf("[%s] Converting %s", staged.ID, staged.StagingName)
	if _, err := h.converter.Convert(r.Context(), staged.StagingPath, staged.OutputPath); err != nil {
		log.Printf("[%s] Conversion failed (%s): %v", staged.ID, util.KindOf(err), err)
		h.alerts.ConversionFailed(header.Filename, err)
		respondJSON(w, http.StatusOK, failure("Conversion failed: %s", userMessage(err)))
		return
	}

	log.Printf("[%s] Conversion complete: %s", staged.ID, staged.OutputName)
	respondJSON(w, http.StatusOK, result{
		Success:     true,
		Message:     "Conversion successful!",
		DownloadURL: "/download/" + url.PathEscape(staged.OutputName),
		Filename:    staged.OutputName,
	})
}

// formFile distinguishes a missing field from a file input submitted with
// no file chosen, which browsers send as a part with an empty filename.
func formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	file, header, err := r.FormFile(field)
	if err == nil {
		return file, header, true
	}
	if r.MultipartForm != nil {
		if _, ok := r.MultipartForm.Value[field]; ok {
			return nil, &multipart.FileHeader{}, true
		}
	}
	return nil, nil, false
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}

	if !util.IsPlainName(filename) {
		respondJSON(w, http.StatusNotFound, failure("File not found"))
		return
	}
	path := filepath.Join(h.cfg.ConvertedDir, filename)
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		respondJSON(w, http.StatusNotFound, failure("File not found"))
		return
	}

	h.sweeper.Sweep(h.now())

	f, err := os.Open(path)
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, failure("Download error: %v", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		respondJSON(w, http.StatusInternalServerError, failure("Download error: %v", err))
		return
	}

	w.Header().Set("Content-Type", config.TargetMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		toASCIIFilename(filename), url.PathEscape(filename)))
	http.ServeContent(w, r, filename, info.ModTime(), f)
}

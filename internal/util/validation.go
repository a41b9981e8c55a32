package util

import (
	"mime/multipart"
	"net"
	"net/http"
	"strings"

	"github.com/coah80/docxify/internal/config"
)

type UploadValidation struct {
	Valid bool
	Error string
}

// Err returns the rejection as a KindValidation error, or nil when valid.
func (v UploadValidation) Err() error {
	if v.Valid {
		return nil
	}
	return NewError(KindValidation, v.Error, nil)
}

// ValidateUpload checks an uploaded file field before anything touches disk.
func ValidateUpload(header *multipart.FileHeader, present bool, allowed []string) UploadValidation {
	if !present || header == nil {
		return UploadValidation{false, "No file uploaded"}
	}
	if header.Filename == "" {
		return UploadValidation{false, "No file selected"}
	}
	if !AllowedFile(header.Filename, allowed) {
		return UploadValidation{false, "Only PDF files are allowed"}
	}
	return UploadValidation{true, ""}
}

// AllowedFile reports whether the lower-cased extension after the last dot
// is in allowed. Entries in allowed are expected in lower case.
func AllowedFile(filename string, allowed []string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return false
	}
	return config.Contains(allowed, strings.ToLower(filename[i+1:]))
}

// GetClientIP expects chi's RealIP middleware to have already rewritten
// RemoteAddr from proxy headers.
func GetClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Package web holds the embedded landing page and its script.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/index.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Page is the data the landing template renders.
type Page struct {
	Service   string
	Version   string
	MaxSizeMB int64
	FieldName string
}

// Landing parses the embedded landing page template.
func Landing() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/index.html")
}

// Static returns the embedded static assets rooted at static/.
func Static() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
}

package util

import (
	"log"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	fallbackBaseName = "document"
	maxFilenameLen   = 200
)

var unsafeFilenameRe = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// EnsureDirs creates each directory if it is missing.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return NewError(KindFilesystem, "Failed to create "+dir, err)
		}
	}
	return nil
}

// SecureFilename reduces an uploaded filename to a flat ASCII name that is
// safe to join onto a directory. It can return "".
func SecureFilename(filename string) string {
	// Chains carry state, so each call gets its own.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, filename)
	if err != nil {
		folded = filename
	}

	var b strings.Builder
	for _, r := range folded {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	s := b.String()

	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameRe.ReplaceAllString(s, "")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return strings.Trim(s, "._")
}

// BaseName sanitizes filename and then drops its final extension, so
// "..pdf" and "文件.pdf" both become "pdf". It is never empty.
func BaseName(filename string) string {
	s := SecureFilename(filename)
	if i := strings.LastIndex(s, "."); i > 0 {
		s = s[:i]
	}
	if s == "" {
		return fallbackBaseName
	}
	return s
}

// ShortID returns 8 random hex characters.
func ShortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// IsPlainName reports whether name refers to a file directly inside a
// directory, with no traversal and no hidden files.
func IsPlainName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}

func RemoveQuiet(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[Cleanup] Failed to remove %s: %v", path, err)
	}
}

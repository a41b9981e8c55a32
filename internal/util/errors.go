package util

import (
	"errors"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConversion
	KindFilesystem
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConversion:
		return "conversion"
	case KindFilesystem:
		return "filesystem"
	default:
		return "internal"
	}
}

// Error carries a user-facing message alongside the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ToUserError turns converter output into something worth showing a user.
// Unknown messages pass through trimmed so the caller never gets an empty
// reason.
func ToUserError(message string) string {
	msg := strings.ToLower(message)

	if strings.Contains(msg, "executable file not found") || (strings.Contains(msg, "no such file or directory") && strings.Contains(msg, "exec")) {
		return "Conversion engine is not installed on the server"
	}
	if strings.Contains(msg, "signal: killed") || strings.Contains(msg, "deadline exceeded") {
		return "Conversion timed out"
	}
	if strings.Contains(msg, "context canceled") {
		return "Conversion cancelled"
	}
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypted") {
		return "The PDF is password protected"
	}
	if strings.Contains(msg, "cannot open") || strings.Contains(msg, "failed to open") || strings.Contains(msg, "not a pdf") || strings.Contains(msg, "syntax error") {
		return "The file could not be read as a PDF"
	}

	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return "Conversion failed"
	}
	return Tail(trimmed, 300)
}

// Tail returns at most the last n bytes of s without splitting a UTF-8
// sequence, so the result can be shorter than n.
func Tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := len(s) - n
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return s[i:]
}

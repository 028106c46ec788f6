package urlpdf

import (
	"errors"
	"fmt"
)

// Kind classifies a conversion failure so callers can react per category.
type Kind string

const (
	// KindValidation reports a request that was rejected before any
	// browser work started.
	KindValidation Kind = "validation"
	// KindLaunch reports a failure to locate, download or start the browser.
	KindLaunch Kind = "launch"
	// KindNavigation reports a failure to load the target page.
	KindNavigation Kind = "navigation"
	// KindProtocol reports a DevTools protocol failure or unusable output.
	KindProtocol Kind = "protocol"
	// KindIO reports a failure writing the PDF to disk.
	KindIO Kind = "io"
)

// Sentinel errors returned by the library.
var (
	// ErrEmptyURL is returned when the request carries no URL.
	ErrEmptyURL = errors.New("urlpdf: URL is empty")

	// ErrEmptyOutput is returned when the request carries no output path.
	ErrEmptyOutput = errors.New("urlpdf: output path is empty")

	// ErrInvalidURL is returned when the URL is not an absolute http(s) URI.
	ErrInvalidURL = errors.New("urlpdf: URL must be an absolute http or https URI")

	// ErrNotPDF is returned when the browser produced bytes that are not a PDF.
	ErrNotPDF = errors.New("urlpdf: browser output is not a PDF document")
)

// Error is the error type returned by [Converter.Convert].
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("urlpdf: %s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("urlpdf: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or the empty
// Kind when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

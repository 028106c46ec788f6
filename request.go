package urlpdf

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// schemePrefix matches a leading "scheme://". Anything after the first
// '/', '?' or '#' cannot be part of it.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// Request names the page to render and where to store the PDF.
type Request struct {
	URL        string
	OutputPath string
}

// NormalizeURL trims raw and prepends "https://" when it does not start
// with a scheme.
// It does not validate the result; see [Request.Normalize].
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !schemePrefix.MatchString(s) {
		s = "https://" + strings.TrimLeft(s, "/")
	}
	return s
}

// NormalizeOutputPath trims path and appends ".pdf" unless it already ends
// in that suffix (compared case-insensitively).
func NormalizeOutputPath(path string) string {
	p := strings.TrimSpace(path)
	if p == "" {
		return ""
	}
	if !strings.EqualFold(filepath.Ext(p), ".pdf") {
		p += ".pdf"
	}
	return p
}

// SuggestOutputPath derives a default file name for rawURL, in the spirit
// of a save dialog pre-filled from the page address.
func SuggestOutputPath(rawURL string) string {
	u, err := url.Parse(NormalizeURL(rawURL))
	if err != nil || u.Host == "" {
		return "page.pdf"
	}
	name := strings.ReplaceAll(u.Host, ":", "_")
	return name + ".pdf"
}

// Normalize returns a copy of r with both fields normalized, or a
// [KindValidation] error when either is empty or the URL is unusable.
func (r Request) Normalize() (Request, error) {
	out := Request{
		URL:        NormalizeURL(r.URL),
		OutputPath: NormalizeOutputPath(r.OutputPath),
	}
	if out.URL == "" {
		return Request{}, newError(KindValidation, "check url", ErrEmptyURL)
	}
	if out.OutputPath == "" {
		return Request{}, newError(KindValidation, "check output path", ErrEmptyOutput)
	}

	u, err := url.ParseRequestURI(out.URL)
	if err != nil {
		return Request{}, newError(KindValidation, "check url", fmt.Errorf("%w: %v", ErrInvalidURL, err))
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Request{}, newError(KindValidation, "check url", fmt.Errorf("%w: %q", ErrInvalidURL, out.URL))
	}
	return out, nil
}

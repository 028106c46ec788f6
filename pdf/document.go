// Package pdf inspects PDF files produced by a browser's print pipeline.
//
// It reads just enough of the file to check that it is a PDF and to list
// its pages with their dimensions. Page objects inside compressed object
// streams are not visible to it; [Load] reports [ErrNoPages] for such files.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Magic is the header every PDF file starts with.
var Magic = []byte("%PDF-")

var (
	// ErrNotPDF is returned when the data does not start with [Magic].
	ErrNotPDF = errors.New("not a PDF file")
	// ErrTruncated is returned when the end-of-file marker is missing.
	ErrTruncated = errors.New("missing %%EOF marker")
	// ErrNoPages is returned when no page object could be found.
	ErrNoPages = errors.New("no pages found")
)

var (
	objHeader  = regexp.MustCompile(`(\d+)\s+(\d+)\s+obj\b`)
	typePage   = regexp.MustCompile(`/Type\s*/Page\b`)
	typePages  = regexp.MustCompile(`/Type\s*/Pages\b`)
	mediaBox   = regexp.MustCompile(`/MediaBox\s*\[\s*([-+\d.]+)\s+([-+\d.]+)\s+([-+\d.]+)\s+([-+\d.]+)\s*\]`)
	rotateNum  = regexp.MustCompile(`/Rotate\s+(-?\d+)`)
	eofMarker  = []byte("%%EOF")
	endObj     = []byte("endobj")
	streamWord = []byte("stream")
)

// PageInfo holds page-level metadata.
type PageInfo struct {
	Width    float64 // points
	Height   float64 // points
	Rotation int     // degrees
}

// Document represents a loaded PDF file.
type Document struct {
	data  []byte
	pages []PageInfo
}

// IsPDF reports whether data starts with the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, Magic)
}

// Open reads a PDF file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Load(data)
}

// Load parses a PDF from raw bytes.
func Load(data []byte) (*Document, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	if !bytes.Contains(tail, eofMarker) {
		return nil, ErrTruncated
	}

	doc := &Document{data: data}
	doc.scanPages()
	if len(doc.pages) == 0 {
		return nil, ErrNoPages
	}
	return doc, nil
}

// Version returns the PDF version string from the header (e.g. "1.4").
func (doc *Document) Version() string {
	if len(doc.data) < 8 {
		return "?"
	}
	head := doc.data[len(Magic):min(len(doc.data), 20)]
	if end := bytes.IndexAny(head, "\r\n"); end >= 0 {
		head = head[:end]
	}
	return strings.TrimSpace(string(head))
}

// Pages returns the pages in file order.
func (doc *Document) Pages() []PageInfo {
	return doc.pages
}

// NumPages returns the number of pages.
func (doc *Document) NumPages() int {
	return len(doc.pages)
}

// Size returns the file size in bytes.
func (doc *Document) Size() int {
	return len(doc.data)
}

// scanPages walks every indirect object and records the /Page
// dictionaries. A page without its own /MediaBox inherits the one found on
// a /Pages node, which is where Chromium and most writers put it.
func (doc *Document) scanPages() {
	var (
		pages     []PageInfo
		hasBox    []bool
		inherited PageInfo
	)

	for _, loc := range objHeader.FindAllIndex(doc.data, -1) {
		start := loc[1]
		end := bytes.Index(doc.data[start:], endObj)
		if end < 0 {
			break
		}
		body := doc.data[start : start+end]
		// Only the dictionary before a stream is of interest.
		if i := bytes.Index(body, streamWord); i >= 0 {
			body = body[:i]
		}

		switch {
		case typePages.Match(body):
			if info, ok := parseBox(body); ok && inherited.Width == 0 {
				inherited = info
			}
		case typePage.Match(body):
			info, ok := parseBox(body)
			if m := rotateNum.FindSubmatch(body); m != nil {
				info.Rotation, _ = strconv.Atoi(string(m[1]))
			}
			pages = append(pages, info)
			hasBox = append(hasBox, ok)
		}
	}

	for i := range pages {
		if !hasBox[i] {
			pages[i].Width = inherited.Width
			pages[i].Height = inherited.Height
		}
	}
	doc.pages = pages
}

func parseBox(dict []byte) (PageInfo, bool) {
	m := mediaBox.FindSubmatch(dict)
	if m == nil {
		return PageInfo{}, false
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(string(m[i+1]), 64)
		if err != nil {
			return PageInfo{}, false
		}
		v[i] = f
	}
	return PageInfo{Width: v[2] - v[0], Height: v[3] - v[1]}, true
}

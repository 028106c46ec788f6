package urlpdf

import (
	"bytes"
	"encoding/base64"
	"io"
	"os"
	"path/filepath"
)

// Result holds a generated PDF and the path it was written to.
//
// It is safe to call its methods multiple times; the underlying data is
// never modified.
type Result struct {
	data  []byte
	path  string
	pages int
}

// Bytes returns the raw PDF content.
func (r *Result) Bytes() []byte {
	return r.data
}

// Path returns the file the PDF was written to.
func (r *Result) Path() string {
	return r.path
}

// Pages returns the number of pages in the document, or 0 when its page
// objects could not be read.
func (r *Result) Pages() int {
	return r.pages
}

// Base64 returns the PDF encoded as a standard base64 string (RFC 4648),
// the form in which the DevTools protocol transports it.
func (r *Result) Base64() string {
	return base64.StdEncoding.EncodeToString(r.data)
}

// Reader returns an [*bytes.Reader] over the PDF content.
func (r *Result) Reader() *bytes.Reader {
	return bytes.NewReader(r.data)
}

// WriteTo writes the full PDF content to w. It implements [io.WriterTo].
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.data)
	return int64(n), err
}

// WriteToFile atomically replaces the file at path with the PDF.
func (r *Result) WriteToFile(path string, perm os.FileMode) error {
	return writeFileAtomic(path, r.data, perm)
}

// Len returns the size of the PDF in bytes.
func (r *Result) Len() int {
	return len(r.data)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so path either keeps its old content or holds all of data.
// The temporary file is removed on every failure.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Chmod(perm); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

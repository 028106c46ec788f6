package pdf_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/porticus-lab/go-url-pdf/internal/pdftest"
	"github.com/porticus-lab/go-url-pdf/pdf"
)

func TestLoad_Pages(t *testing.T) {
	data := pdftest.Build(
		pdftest.Letter,
		pdftest.Page{Width: 842, Height: 595, Rotate: 90},
		pdftest.Page{},
	)

	doc, err := pdf.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.NumPages() != 3 {
		t.Fatalf("NumPages() = %d, want 3", doc.NumPages())
	}

	want := []pdf.PageInfo{
		{Width: 612, Height: 792},
		{Width: 842, Height: 595, Rotation: 90},
		{Width: 612, Height: 792}, // inherited from /Pages
	}
	for i, w := range want {
		if got := doc.Pages()[i]; got != w {
			t.Errorf("page %d = %+v, want %+v", i+1, got, w)
		}
	}
}

func TestLoad_Version(t *testing.T) {
	doc, err := pdf.Load(pdftest.Build(pdftest.Letter))
	if err != nil {
		t.Fatal(err)
	}
	if v := doc.Version(); v != "1.4" {
		t.Errorf("Version() = %q, want 1.4", v)
	}
}

func TestLoad_Errors(t *testing.T) {
	valid := pdftest.Build(pdftest.Letter)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, pdf.ErrNotPDF},
		{"html", []byte("<!DOCTYPE html><p>nope</p>"), pdf.ErrNotPDF},
		{"truncated", valid[:len(valid)/2], pdf.ErrTruncated},
		{"no pages", []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF\n"), pdf.ErrNoPages},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pdf.Load(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIsPDF(t *testing.T) {
	if !pdf.IsPDF([]byte("%PDF-1.7")) {
		t.Error("IsPDF(%PDF-1.7) = false")
	}
	if pdf.IsPDF([]byte("%PD")) {
		t.Error("IsPDF(short) = true")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdftest.Build(pdftest.Letter, pdftest.Letter), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := pdf.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.NumPages() != 2 {
		t.Errorf("NumPages() = %d, want 2", doc.NumPages())
	}

	if _, err := pdf.Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Open(missing) succeeded")
	}
}

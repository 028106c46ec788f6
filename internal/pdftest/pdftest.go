// Package pdftest builds small, well-formed PDF files for tests.
package pdftest

import (
	"fmt"
	"strings"
)

// Page describes one page of a generated document.
type Page struct {
	Width, Height float64 // points; zero inherits the /Pages media box
	Rotate        int
	Text          string
}

// Letter is a US Letter portrait page in points.
var Letter = Page{Width: 612, Height: 792}

// Build returns a PDF with a catalog, a page tree whose root carries a
// Letter media box, one page object plus content stream per page, and a
// classic cross-reference table.
func Build(pages ...Page) []byte {
	var b strings.Builder
	offsets := map[int]int{}
	obj := func(id int, body string) {
		offsets[id] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", id, body)
	}

	b.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i*2)
	}
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pages)))

	for i, p := range pages {
		pageID, csID := 3+i*2, 4+i*2
		dict := "<< /Type /Page /Parent 2 0 R"
		if p.Width > 0 && p.Height > 0 {
			dict += fmt.Sprintf(" /MediaBox [0 0 %g %g]", p.Width, p.Height)
		}
		if p.Rotate != 0 {
			dict += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		dict += fmt.Sprintf(" /Contents %d 0 R >>", csID)
		obj(pageID, dict)

		cs := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", p.Text)
		obj(csID, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(cs), cs))
	}

	size := 3 + len(pages)*2
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", size)
	for id := 1; id < size; id++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return []byte(b.String())
}

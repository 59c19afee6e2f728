package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Page geometry in points, Letter portrait. Coordinates are from the top edge.
const (
	pdfLeft       = 72.0
	pdfTop        = 42.0
	pdfFirstEntry = 92.0
	pdfLineGap    = 20.0
	pdfEntryGap   = 60.0
	pdfWrapGap    = 12.0  // extra space per wrapped status line
	pdfTextWidth  = 468.0 // Letter width less both margins
	pdfBottom     = 692.0
	pdfFontSize   = 10.0
	pdfTimeLayout = "2006-01-02 15:04:05"
)

// WritePDF renders the reports as a plain text listing: a heading with the
// generation date, then URL, status and date lines for every report.
func WritePDF(w io.Writer, reports []*domain.Report, generatedAt time.Time) error {
	pdf := buildPDF(reports, generatedAt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func buildPDF(reports []*domain.Report, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle("Website Test Report", true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	newPage := func() {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", pdfFontSize)
	}

	newPage()
	pdf.Text(pdfLeft, pdfTop, "Website Test Report")
	pdf.Text(pdfLeft, pdfTop+pdfLineGap, "Date: "+generatedAt.Format(pdfTimeLayout))

	y := pdfFirstEntry
	for _, r := range reports {
		pdf.Text(pdfLeft, y, tr("URL: "+r.URL))
		status := statusLines(pdf, tr, r)
		for i, line := range status {
			pdf.Text(pdfLeft, y+pdfLineGap+float64(i)*pdfWrapGap, line)
		}
		extra := 0.0
		if len(status) > 1 {
			extra = float64(len(status)-1) * pdfWrapGap
		}
		pdf.Text(pdfLeft, y+2*pdfLineGap+extra, "Date: "+r.ObservedAt.Format(pdfTimeLayout))
		y += pdfEntryGap + extra

		if y > pdfBottom {
			newPage()
			y = pdfTop
		}
	}
	return pdf
}

// statusLines wraps the report summary to the printable width. It works on
// the translated single-byte text, so widths are measured per byte; a word
// wider than the line is broken where it overflows.
func statusLines(pdf *fpdf.Fpdf, tr func(string) string, r *domain.Report) []string {
	var (
		lines []string
		cur   string
	)
	for _, word := range strings.Fields(tr("Status: " + r.Summary())) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if pdf.GetStringWidth(next) <= pdfTextWidth {
			cur = next
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		for pdf.GetStringWidth(word) > pdfTextWidth {
			n := 1
			for n < len(word) && pdf.GetStringWidth(word[:n+1]) <= pdfTextWidth {
				n++
			}
			lines = append(lines, word[:n])
			word = word[n:]
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

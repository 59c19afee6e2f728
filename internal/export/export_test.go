package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/sitecheck/internal/domain"
)

func reports(n int) []*domain.Report {
	out := make([]*domain.Report, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &domain.Report{
			ID:         domain.ReportID(fmt.Sprintf("R%d", i)),
			URL:        fmt.Sprintf("https://site-%d.example", i),
			Render:     domain.Ok(`site is up, page title: "Café, \"quoted\""`),
			Latency:    domain.Ok("response time: 0.12 seconds (HTTP 200)"),
			Security:   domain.Ok("site uses HTTPS"),
			HTTPStatus: 200,
			LatencyMS:  120,
			ObservedAt: time.Date(2025, 8, 18, 12, 0, i, 0, time.UTC),
		})
	}
	return out
}

func TestWriteCSV(t *testing.T) {
	rs := reports(2)
	rs[1].Latency = domain.Failed("connection error: connection refused")
	rs[1].HTTPStatus, rs[1].LatencyMS = 0, 0

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, "R0", rows[1][0])
	assert.Equal(t, "2025-08-18T12:00:00Z", rows[1][2])
	assert.Equal(t, `site is up, page title: "Café, \"quoted\""`, rows[1][4])
	assert.Equal(t, "200", rows[1][7])
	assert.Equal(t, "120.0", rows[1][8])

	assert.Equal(t, "false", rows[2][5])
	assert.Equal(t, "", rows[2][7])
	assert.Equal(t, "", rows[2][8])
}

func TestWriteCSV_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWritePDF(t *testing.T) {
	var small, large bytes.Buffer
	at := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

	require.NoError(t, WritePDF(&small, reports(1), at))
	require.NoError(t, WritePDF(&large, reports(40), at))

	assert.True(t, bytes.HasPrefix(small.Bytes(), []byte("%PDF-")))
	assert.True(t, bytes.HasPrefix(large.Bytes(), []byte("%PDF-")))
	// 40 entries at 60pt each do not fit on one Letter page.
	assert.Equal(t, 1, buildPDF(reports(1), at).PageCount())
	assert.Greater(t, buildPDF(reports(40), at).PageCount(), 1)
}

func TestWritePDF_NoReports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, nil, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_LongStatusWraps(t *testing.T) {
	r := reports(1)[0]
	r.Render = domain.Failed("site could not be reached: " + strings.Repeat("net::ERR_NAME_NOT_RESOLVED ", 20))

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", pdfFontSize)
	lines := statusLines(pdf, pdf.UnicodeTranslatorFromDescriptor(""), r)

	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(l), pdfTextWidth)
	}
	assert.True(t, strings.HasPrefix(lines[0], "Status: "))

	// One unbroken token wider than the page is split as well.
	r.Render = domain.Failed(strings.Repeat("x", 400) + " Café")
	lines = statusLines(pdf, pdf.UnicodeTranslatorFromDescriptor(""), r)
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(l), pdfTextWidth)
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, []*domain.Report{r}, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

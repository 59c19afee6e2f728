package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

var csvHeader = []string{
	"id", "url", "observed_at",
	"render_ok", "render",
	"latency_ok", "latency", "http_status", "latency_ms",
	"security_ok", "security",
}

// WriteCSV writes one row per report, preceded by a header row.
func WriteCSV(w io.Writer, reports []*domain.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range reports {
		status := ""
		if r.HTTPStatus != 0 {
			status = strconv.Itoa(r.HTTPStatus)
		}
		latency := ""
		if r.LatencyMS != 0 {
			latency = strconv.FormatFloat(r.LatencyMS, 'f', 1, 64)
		}
		row := []string{
			string(r.ID), r.URL, r.ObservedAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(r.Render.OK), r.Render.Message,
			strconv.FormatBool(r.Latency.OK), r.Latency.Message, status, latency,
			strconv.FormatBool(r.Security.OK), r.Security.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

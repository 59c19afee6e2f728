package domain

import (
	"strings"
	"time"
)

type ReportID string

// Outcome is the result of one check: Ok(evidence) or Failed(reason).
type Outcome struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func Ok(evidence string) Outcome { return Outcome{OK: true, Message: evidence} }

func Failed(reason string) Outcome { return Outcome{OK: false, Message: reason} }

// Report is the composite result of one probe. It is never partially filled:
// every outcome carries a message even when its check failed.
type Report struct {
	ID         ReportID  `json:"id"`
	URL        string    `json:"url"`
	Render     Outcome   `json:"render"`
	Latency    Outcome   `json:"latency"`
	Security   Outcome   `json:"security"`
	PageTitle  string    `json:"page_title,omitempty"`
	HTTPStatus int       `json:"http_status,omitempty"`
	LatencyMS  float64   `json:"latency_ms,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Outcomes returns the three outcomes in render, latency, security order.
func (r *Report) Outcomes() []Outcome {
	return []Outcome{r.Render, r.Latency, r.Security}
}

// Healthy reports whether every check succeeded.
func (r *Report) Healthy() bool {
	for _, o := range r.Outcomes() {
		if !o.OK {
			return false
		}
	}
	return true
}

// Summary joins the three messages into one line, the way they are shown in listings.
func (r *Report) Summary() string {
	parts := make([]string, 0, 3)
	for _, o := range r.Outcomes() {
		parts = append(parts, o.Message)
	}
	return strings.Join(parts, " | ")
}

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes caps how much of the response body is read while timing.
const maxBodyBytes = 4 << 20

type LatencyChecker struct {
	Client *http.Client
	// Diagnose, when set, classifies the host after a transport failure
	// (see DNSDiagnosis). Its result is appended to the failure message.
	Diagnose func(ctx context.Context, host string) string
}

func NewLatencyChecker(timeout time.Duration) *LatencyChecker {
	return &LatencyChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one GET and times it until the body has been read.
// Any HTTP response counts as a successful measurement, whatever its status.
func (l *LatencyChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return CheckResult{Name: NameLatency, Message: "connection error: " + err.Error()}
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		msg := "connection error: " + err.Error()
		if l.Diagnose != nil {
			if class := l.Diagnose(ctx, extractHost(target)); class != "" {
				msg += " (dns=" + class + ")"
			}
		}
		return CheckResult{Name: NameLatency, Message: msg, LatencyMS: msSince(start)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	elapsed := time.Since(start)
	return CheckResult{
		Name:       NameLatency,
		Success:    true,
		Message:    fmt.Sprintf("response time: %.2f seconds (HTTP %d)", elapsed.Seconds(), resp.StatusCode),
		StatusCode: resp.StatusCode,
		LatencyMS:  float64(elapsed) / float64(time.Millisecond),
	}
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}

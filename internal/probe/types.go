package probe

import (
	"context"

	"github.com/hamed0406/sitecheck/internal/domain"
)

const (
	NameRender   = "render"
	NameLatency  = "latency"
	NameSecurity = "security"
)

// CheckResult holds the outcome of a single check.
type CheckResult struct {
	Name       string  `json:"name"`
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	StatusCode int     `json:"status_code,omitempty"` // latency check only; 0 on transport errors
	LatencyMS  float64 `json:"latency_ms,omitempty"`
	Title      string  `json:"title,omitempty"` // render check only
}

// Outcome converts the result into the tagged form stored on reports.
func (c CheckResult) Outcome() domain.Outcome {
	if c.Success {
		return domain.Ok(c.Message)
	}
	return domain.Failed(c.Message)
}

// Checker is implemented by each of the render, latency and security checks.
// Check must not return an error: failures are reported through the result.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// CheckFunc adapts a plain function to Checker.
type CheckFunc func(ctx context.Context, target string) CheckResult

func (f CheckFunc) Check(ctx context.Context, target string) CheckResult { return f(ctx, target) }

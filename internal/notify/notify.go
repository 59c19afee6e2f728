package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var firstErr error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, title, text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// FailedProbe formats the alert sent when a report has a failed check.
func FailedProbe(r *domain.Report) (title, text string) {
	mark := func(o domain.Outcome) string {
		if o.OK {
			return "ok"
		}
		return "FAILED"
	}
	title = "🔴 Site check failed"
	text = fmt.Sprintf(
		"URL: %s\nRender (%s): %s\nLatency (%s): %s\nSecurity (%s): %s\nChecked: %s",
		r.URL,
		mark(r.Render), r.Render.Message,
		mark(r.Latency), r.Latency.Message,
		mark(r.Security), r.Security.Message,
		r.ObservedAt.Format(time.RFC3339),
	)
	return title, text
}

package probe

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Runner executes the render, latency and security checks against one URL
// and assembles a Report. Probe never fails; a failed check is recorded as a
// failed outcome on the report.
type Runner struct {
	Render   Checker
	Latency  Checker
	Security Checker

	// Concurrent runs the three checks in parallel. Output order is unchanged.
	Concurrent bool
	Logger     *zap.Logger
	Now        func() time.Time
}

func NewRunner(render, latency Checker, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		Render:   render,
		Latency:  latency,
		Security: SecurityChecker{},
		Logger:   logger,
		Now:      time.Now,
	}
}

// Probe runs the checks in render, latency, security order. The caller is
// expected to have validated the URL scheme already.
func (r *Runner) Probe(ctx context.Context, target string) domain.Report {
	start := time.Now()
	names := [3]string{NameRender, NameLatency, NameSecurity}
	security := r.Security
	if security == nil {
		security = SecurityChecker{}
	}
	checks := [3]Checker{r.Render, r.Latency, security}
	var results [3]CheckResult

	if r.Concurrent {
		var wg sync.WaitGroup
		for i := range checks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = runCheck(ctx, names[i], checks[i], target)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range checks {
			results[i] = runCheck(ctx, names[i], checks[i], target)
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	render, latency, secure := results[0], results[1], results[2]
	rep := domain.Report{
		URL:        target,
		Render:     render.Outcome(),
		Latency:    latency.Outcome(),
		Security:   secure.Outcome(),
		PageTitle:  render.Title,
		HTTPStatus: latency.StatusCode,
		LatencyMS:  latency.LatencyMS,
		ObservedAt: now().UTC(),
	}

	if r.Logger != nil {
		r.Logger.Info("probe_done",
			zap.String("url", target),
			zap.Bool("render_ok", render.Success),
			zap.Bool("latency_ok", latency.Success),
			zap.Bool("security_ok", secure.Success),
			zap.Int("http_status", latency.StatusCode),
			zap.Duration("took", time.Since(start)),
		)
	}
	return rep
}

// runCheck shields the runner from a misbehaving check: a nil checker, a
// panic or an empty message all still yield a populated result.
func runCheck(ctx context.Context, name string, c Checker, target string) (res CheckResult) {
	if c == nil {
		return CheckResult{Name: name, Message: name + " check is not configured"}
	}
	defer func() {
		if p := recover(); p != nil {
			res = CheckResult{Name: name, Message: fmt.Sprintf("%s check crashed: %v", name, p)}
		}
	}()

	res = c.Check(ctx, target)
	if res.Name == "" {
		res.Name = name
	}
	if strings.TrimSpace(res.Message) == "" {
		if res.Success {
			res.Message = name + " check passed"
		} else {
			res.Message = name + " check failed without details"
		}
	}
	return res
}

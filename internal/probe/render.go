package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/browser"
)

// RenderChecker loads the page in a browser session and uses its title as
// evidence that the site rendered.
type RenderChecker struct {
	Launcher browser.Launcher
	Timeout  time.Duration
	Logger   *zap.Logger
}

func NewRenderChecker(l browser.Launcher, timeout time.Duration, logger *zap.Logger) *RenderChecker {
	return &RenderChecker{Launcher: l, Timeout: timeout, Logger: logger}
}

func (r *RenderChecker) Check(ctx context.Context, target string) CheckResult {
	if r.Launcher == nil {
		return renderFailed(errors.New("no browser configured"))
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	sess, err := r.Launcher.Open(ctx)
	if err != nil {
		return renderFailed(fmt.Errorf("open browser: %w", err))
	}
	// The session is released on every path below, before the timeout is cancelled.
	defer func() {
		if err := sess.Close(); err != nil && r.Logger != nil {
			r.Logger.Warn("browser_close_error", zap.String("url", target), zap.Error(err))
		}
	}()

	if err := sess.Navigate(ctx, target); err != nil {
		return renderFailed(err)
	}
	if err := sess.WaitReady(ctx); err != nil {
		return renderFailed(err)
	}
	title, err := sess.Title(ctx)
	if err != nil {
		return renderFailed(err)
	}
	return CheckResult{
		Name:    NameRender,
		Success: true,
		Message: fmt.Sprintf("site is up, page title: %q", title),
		Title:   title,
	}
}

func renderFailed(err error) CheckResult {
	return CheckResult{Name: NameRender, Message: "site could not be reached: " + err.Error()}
}

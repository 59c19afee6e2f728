package browser

import (
	"context"
	"sync"

	"github.com/chromedp/chromedp"
)

// Chrome starts a Chromium-family browser (Chrome, Brave, Edge) over the
// DevTools protocol, either locally or by attaching to RemoteURL.
type Chrome struct {
	cfg Config
}

func NewChrome(cfg Config) *Chrome {
	return &Chrome{cfg: cfg}
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", c.cfg.Headless))
	if c.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ExecPath))
	}
	if c.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.cfg.UserAgent))
	}
	return opts
}

func (c *Chrome) Open(ctx context.Context) (Session, error) {
	var (
		allocCtx    context.Context
		allocCancel context.CancelFunc
	)
	if c.cfg.RemoteURL != "" {
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, c.cfg.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch errors surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, err
	}
	return &chromeSession{
		cfg:         c.cfg,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}

type chromeSession struct {
	cfg         Config
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// run executes actions on the tab while honouring the caller's deadline and
// cancellation; cancelling runCtx aborts the actions but keeps the tab open.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if dl, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.tabCtx, dl)
	} else {
		runCtx, cancel = context.WithCancel(s.tabCtx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) WaitReady(ctx context.Context) error {
	actions := []chromedp.Action{chromedp.WaitReady("body", chromedp.ByQuery)}
	if s.cfg.Settle > 0 {
		actions = append(actions, chromedp.Sleep(s.cfg.Settle))
	}
	return s.run(ctx, actions...)
}

func (s *chromeSession) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.run(ctx, chromedp.Title(&title)); err != nil {
		return "", err
	}
	return title, nil
}

func (s *chromeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true

	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	return err
}

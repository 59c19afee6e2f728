package browser

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly"
)

// Static fetches the page HTML and reads <title> without running scripts.
// It needs no browser binary, which makes it the choice for slim deployments.
type Static struct {
	cfg Config
}

func NewStatic(cfg Config) *Static {
	return &Static{cfg: cfg}
}

func (s *Static) Open(_ context.Context) (Session, error) {
	// Error pages still render and carry a title.
	opts := []func(*colly.Collector){colly.AllowURLRevisit(), colly.ParseHTTPErrorResponse()}
	if s.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(s.cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	sess := &staticSession{collector: c, timeout: s.cfg.Timeout}
	c.OnHTML("head > title, title", func(e *colly.HTMLElement) {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if sess.title == "" {
			sess.title = strings.TrimSpace(e.Text)
		}
	})
	return sess, nil
}

type staticSession struct {
	collector *colly.Collector
	timeout   time.Duration

	mu        sync.Mutex
	title     string
	navigated bool
	closed    bool
}

func (s *staticSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := s.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		s.collector.SetRequestTimeout(timeout)
	}
	if err := s.collector.Visit(url); err != nil {
		return err
	}
	s.collector.Wait()

	s.mu.Lock()
	s.navigated = true
	s.mu.Unlock()
	return nil
}

func (s *staticSession) WaitReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.navigated {
		return errors.New("no page loaded")
	}
	return nil
}

func (s *staticSession) Title(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, nil
}

func (s *staticSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	return nil
}

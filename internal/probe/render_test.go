package probe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/sitecheck/internal/browser"
)

// fakeLauncher counts sessions so tests can assert none leak.
type fakeLauncher struct {
	openErr error
	sess    *fakeSession
	opened  int
}

func (f *fakeLauncher) Open(ctx context.Context) (browser.Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return f.sess, nil
}

type fakeSession struct {
	navErr   error
	waitErr  error
	titleErr error
	title    string
	block    bool // Navigate waits for ctx to end
	closed   int
	visited  string
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.visited = url
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.navErr
}

func (s *fakeSession) WaitReady(ctx context.Context) error { return s.waitErr }

func (s *fakeSession) Title(ctx context.Context) (string, error) { return s.title, s.titleErr }

func (s *fakeSession) Close() error {
	s.closed++
	return nil
}

func TestRenderChecker_SuccessClosesOnce(t *testing.T) {
	sess := &fakeSession{title: "Example"}
	l := &fakeLauncher{sess: sess}
	out := NewRenderChecker(l, time.Second, nil).Check(context.Background(), "https://example.test")

	if !out.Success || out.Title != "Example" {
		t.Fatalf("want success with title, got %+v", out)
	}
	if !strings.Contains(out.Message, "Example") {
		t.Fatalf("message should carry the title, got %q", out.Message)
	}
	if sess.visited != "https://example.test" {
		t.Fatalf("navigated to %q", sess.visited)
	}
	if l.opened != 1 || sess.closed != 1 {
		t.Fatalf("want 1 open / 1 close, got %d / %d", l.opened, sess.closed)
	}
}

func TestRenderChecker_FailuresCloseOnce(t *testing.T) {
	boom := errors.New("net::ERR_NAME_NOT_RESOLVED")
	cases := map[string]*fakeSession{
		"navigate": {navErr: boom},
		"wait":     {waitErr: boom},
		"title":    {titleErr: boom},
	}
	for name, sess := range cases {
		t.Run(name, func(t *testing.T) {
			l := &fakeLauncher{sess: sess}
			out := NewRenderChecker(l, time.Second, nil).Check(context.Background(), "https://nope.test")
			if out.Success {
				t.Fatalf("want failure, got %+v", out)
			}
			if !strings.HasPrefix(out.Message, "site could not be reached:") || !strings.Contains(out.Message, boom.Error()) {
				t.Fatalf("unexpected message %q", out.Message)
			}
			if l.opened != 1 || sess.closed != 1 {
				t.Fatalf("want 1 open / 1 close, got %d / %d", l.opened, sess.closed)
			}
		})
	}
}

func TestRenderChecker_TimeoutBoundsNavigation(t *testing.T) {
	sess := &fakeSession{block: true}
	l := &fakeLauncher{sess: sess}

	start := time.Now()
	out := NewRenderChecker(l, 30*time.Millisecond, nil).Check(context.Background(), "https://slow.test")
	if time.Since(start) > time.Second {
		t.Fatalf("navigation was not bounded by the timeout")
	}
	if out.Success || !strings.Contains(out.Message, context.DeadlineExceeded.Error()) {
		t.Fatalf("want deadline failure, got %+v", out)
	}
	if sess.closed != 1 {
		t.Fatalf("want session closed once, got %d", sess.closed)
	}
}

func TestRenderChecker_OpenFailure(t *testing.T) {
	l := &fakeLauncher{openErr: errors.New("exec: \"brave\": executable file not found")}
	out := NewRenderChecker(l, time.Second, nil).Check(context.Background(), "https://example.test")
	if out.Success || !strings.Contains(out.Message, "executable file not found") {
		t.Fatalf("want open failure, got %+v", out)
	}
}

func TestRenderChecker_NoLauncher(t *testing.T) {
	out := (&RenderChecker{}).Check(context.Background(), "https://example.test")
	if out.Success || out.Message == "" {
		t.Fatalf("want failure with message, got %+v", out)
	}
}

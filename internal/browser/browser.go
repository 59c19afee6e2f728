package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	ModeChrome = "chrome"
	ModeStatic = "static"
)

var ErrSessionClosed = errors.New("browser session already closed")

// Config describes how browser sessions are started. It is built once at
// startup and handed to the launcher; nothing in here is read from globals.
type Config struct {
	Mode      string        // "chrome" (default) or "static"
	ExecPath  string        // browser binary; empty lets chromedp search the PATH
	RemoteURL string        // DevTools websocket/http endpoint of an already running browser
	Headless  bool
	NoSandbox bool
	UserAgent string
	Timeout   time.Duration // bound on navigation + load wait
	Settle    time.Duration // extra pause after the document is ready
}

// Launcher opens browser sessions.
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}

// Session is one browser tab. Callers must Close it exactly once.
type Session interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context) error
	Title(ctx context.Context) (string, error)
	Close() error
}

// NewLauncher picks the launcher implementation for cfg.Mode.
func NewLauncher(cfg Config) (Launcher, error) {
	switch cfg.Mode {
	case "", ModeChrome:
		return NewChrome(cfg), nil
	case ModeStatic:
		return NewStatic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown browser mode %q", cfg.Mode)
	}
}

// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hamed0406/sitecheck/internal/browser"
	"github.com/hamed0406/sitecheck/internal/config"
)

func main() {
	_ = godotenv.Load()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	admin := strings.TrimSpace(os.Getenv("ADMIN_API_KEYS"))
	pub := strings.TrimSpace(os.Getenv("PUBLIC_API_KEYS"))
	cfg := config.FromEnv()

	if admin == "" {
		fail("ADMIN_API_KEYS is empty (clearing reports would be open to anyone).")
	}
	if pub == "" {
		warn("PUBLIC_API_KEYS is empty; only admin keys can probe and read reports.")
	}

	// Normalize and sanity-check lists (no spaces around commas).
	for name, v := range map[string]string{"ADMIN_API_KEYS": admin, "PUBLIC_API_KEYS": pub} {
		if strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}

	ok("ADDR=" + cfg.Addr)

	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty — reports are kept in memory and lost on restart.")
	} else {
		ok("DATABASE_URL present")
	}

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty — any origin may call the API from a browser.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	switch cfg.Browser.Mode {
	case browser.ModeStatic:
		ok("BROWSER_MODE=static (no browser binary needed)")
	case browser.ModeChrome:
		switch {
		case cfg.Browser.RemoteURL != "":
			ok("BROWSER_REMOTE_URL=" + cfg.Browser.RemoteURL)
		case cfg.Browser.ExecPath != "":
			if _, err := os.Stat(cfg.Browser.ExecPath); err != nil {
				fail("BROWSER_PATH " + cfg.Browser.ExecPath + " not found: " + err.Error())
			}
			ok("BROWSER_PATH=" + cfg.Browser.ExecPath)
		default:
			found := ""
			for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "brave-browser"} {
				if p, err := exec.LookPath(name); err == nil {
					found = p
					break
				}
			}
			if found == "" {
				fail("no Chrome/Chromium/Brave on PATH; set BROWSER_PATH, BROWSER_REMOTE_URL or BROWSER_MODE=static")
			}
			ok("browser found at " + found)
		}
	default:
		fail("BROWSER_MODE must be chrome or static, got " + cfg.Browser.Mode)
	}

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty — failed probes will not be announced.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	ok("preflight passed")
}

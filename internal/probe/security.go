package probe

import (
	"context"
	"strings"
)

// SecurityChecker inspects the URL scheme only; it does no I/O and never fails.
type SecurityChecker struct{}

func (SecurityChecker) Check(_ context.Context, target string) CheckResult {
	if IsHTTPS(target) {
		return CheckResult{Name: NameSecurity, Success: true, Message: "site uses HTTPS"}
	}
	return CheckResult{Name: NameSecurity, Success: false, Message: "site does not appear to use HTTPS"}
}

func IsHTTPS(target string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(target)), "https://")
}

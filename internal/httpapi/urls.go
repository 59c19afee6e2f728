package httpapi

import (
	"net"
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"
)

// isValidHTTPURL accepts absolute http(s) URLs with a plausible host.
func isValidHTTPURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	host := u.Hostname()
	if host == "" || !govalidator.IsHost(strings.ToLower(host)) {
		return false
	}
	if p := u.Port(); p != "" && !govalidator.IsPort(p) {
		return false
	}
	return true
}

// normalizeHTTPURL lowercases scheme and host, drops default ports, a bare
// trailing slash and the fragment. Invalid input is returned trimmed.
func normalizeHTTPURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host, port := strings.ToLower(u.Hostname()), u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	u.Host = host
	if u.Path == "/" && u.RawQuery == "" {
		u.Path = ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

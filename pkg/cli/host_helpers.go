package cli

import (
	"fmt"
	"net/url"
	"strings"
)

// normalizeHostURL checks that host is a bare http(s) dashboard URL and
// returns it without a trailing slash. Credentials travel in --token, so
// userinfo in the URL is rejected.
func normalizeHostURL(host string) (string, error) {
	trimmed := strings.TrimSpace(host)
	if trimmed == "" {
		return "", fmt.Errorf("invalid host %q: host URL cannot be empty", host)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid host %q: %w", host, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return "", fmt.Errorf("invalid host %q: scheme must be http or https", host)
	case u.Host == "":
		return "", fmt.Errorf("invalid host %q: missing host", host)
	case u.User != nil:
		return "", fmt.Errorf("invalid host %q: pass credentials with --token, not in the URL", host)
	case u.Path != "" && u.Path != "/":
		return "", fmt.Errorf("invalid host %q: use the dashboard root, the CLI adds %s itself", host, "/api")
	case u.RawQuery != "" || u.Fragment != "":
		return "", fmt.Errorf("invalid host %q: host must not include query or fragment", host)
	}
	return u.Scheme + "://" + u.Host, nil
}

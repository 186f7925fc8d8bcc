package catalog

import (
	"net/url"
	"strings"
)

// ExtractDomain returns the bare lowercase domain of a URL, with any
// leading "www." stripped. Bare hostnames without a scheme are accepted.
// Returns "" when nothing resembling a host can be found.
func ExtractDomain(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := parsed.Hostname()
	if host == "" {
		// "openai.com/about" parses as a bare path.
		host = strings.SplitN(parsed.Path, "/", 2)[0]
	}

	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	if !strings.Contains(host, ".") {
		return ""
	}
	return host
}

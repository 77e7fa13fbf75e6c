package redirect

import (
	"net"
	"net/url"
	"strings"

	"github.com/flexprice/billingsession/internal/config"
)

// DefaultSiteURL is used when no site URL is configured
const DefaultSiteURL = "http://localhost:3000"

// SiteURL builds absolute URLs on the public site
type SiteURL struct {
	base string
}

// NewSiteURL resolves the configured site URL once
func NewSiteURL(cfg *config.Configuration) *SiteURL {
	return NewSiteURLFromString(cfg.Site.URL)
}

// NewSiteURLFromString normalizes raw into a base URL without a trailing
// slash. A missing scheme becomes https, and http is upgraded to https
// unless the host is a local development host.
func NewSiteURLFromString(raw string) *SiteURL {
	base := strings.TrimSpace(raw)
	if base == "" {
		base = DefaultSiteURL
	}
	base = strings.TrimRight(base, "/")

	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	if u, err := url.Parse(base); err == nil && u.Scheme == "http" && !isLocalHost(u.Hostname()) {
		u.Scheme = "https"
		base = u.String()
	}

	return &SiteURL{base: strings.TrimRight(base, "/")}
}

// BaseURL returns the normalized site URL
func (s *SiteURL) BaseURL() string {
	return s.base
}

// URL joins path onto the site URL with exactly one slash
func (s *SiteURL) URL(path string) string {
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return s.base
	}
	return s.base + "/" + path
}

func isLocalHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback() || ip.IsUnspecified()
	}
	return false
}

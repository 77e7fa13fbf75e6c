package redirect

import (
	"testing"

	"github.com/flexprice/billingsession/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestSiteURLBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty falls back to localhost", raw: "", expected: "http://localhost:3000"},
		{name: "whitespace falls back to localhost", raw: "   ", expected: "http://localhost:3000"},
		{name: "trailing slashes stripped", raw: "https://app.example.com///", expected: "https://app.example.com"},
		{name: "missing scheme gets https", raw: "app.example.com", expected: "https://app.example.com"},
		{name: "http upgraded for public hosts", raw: "http://app.example.com/", expected: "https://app.example.com"},
		{name: "http kept for localhost", raw: "http://localhost:5173", expected: "http://localhost:5173"},
		{name: "http kept for loopback ip", raw: "http://127.0.0.1:8080", expected: "http://127.0.0.1:8080"},
		{name: "http kept for localhost subdomain", raw: "http://app.localhost", expected: "http://app.localhost"},
		{name: "http kept for ipv6 loopback", raw: "http://[::1]:3000", expected: "http://[::1]:3000"},
		{name: "base path kept", raw: "https://example.com/app/", expected: "https://example.com/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewSiteURLFromString(tt.raw).BaseURL())
		})
	}
}

func TestSiteURLURL(t *testing.T) {
	site := NewSiteURLFromString("https://app.example.com/")

	assert.Equal(t, "https://app.example.com", site.URL(""))
	assert.Equal(t, "https://app.example.com", site.URL("/"))
	assert.Equal(t, "https://app.example.com/account", site.URL("/account"))
	assert.Equal(t, "https://app.example.com/account", site.URL("//account"))
	assert.Equal(t, "https://app.example.com/account/billing", site.URL("account/billing"))
}

func TestNewSiteURLFromConfig(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Site.URL = "billing.example.com"

	assert.Equal(t, "https://billing.example.com/pricing", NewSiteURL(cfg).URL("pricing"))
}

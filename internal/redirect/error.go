package redirect

import (
	"net/url"
	"strings"

	ierr "github.com/flexprice/billingsession/internal/errors"
)

const (
	ParamError   = "error"
	ParamMessage = "message"

	// DefaultErrorMessage is the body shown under every error title
	DefaultErrorMessage = "Please try again later or contact a system administrator."
)

// FormatErrorRedirect appends the error title and message to path as the
// error and message query parameters. Existing parameters on path are kept,
// except stale error and message values which are replaced.
func FormatErrorRedirect(path, title, message string) string {
	base, rawQuery, fragment := splitPath(path)

	params := make([]string, 0, 4)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if name, err := url.QueryUnescape(key); err == nil && (name == ParamError || name == ParamMessage) {
			continue
		}
		params = append(params, pair)
	}
	params = append(params,
		ParamError+"="+encodeComponent(title),
		ParamMessage+"="+encodeComponent(message),
	)

	out := base + "?" + strings.Join(params, "&")
	if fragment != "" {
		out += "#" + fragment
	}
	return out
}

// FromError builds the error redirect for err. The title is the hint the
// failing stage attached.
func FromError(path string, err error) string {
	title := ierr.DisplayMessage(err)
	if title == "" {
		title = ierr.DefaultDisplayMessage
	}
	return FormatErrorRedirect(path, title, DefaultErrorMessage)
}

func splitPath(path string) (base, rawQuery, fragment string) {
	base, fragment, _ = strings.Cut(path, "#")
	base, rawQuery, _ = strings.Cut(base, "?")
	return base, rawQuery, fragment
}

// componentUnescaper restores the characters encodeURIComponent leaves alone
// but url.QueryEscape escapes
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s for a query value the way encodeURIComponent does
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

package dto

import (
	"net/url"
	"strings"

	ierr "github.com/flexprice/billingsession/internal/errors"
	"github.com/flexprice/billingsession/internal/validator"
)

// PriceRef identifies a catalog price. Only the id is trusted; the rest of
// the price is re-read from the catalog.
type PriceRef struct {
	ID string `json:"id" validate:"required"`
}

type CreateCheckoutSessionRequest struct {
	Price PriceRef `json:"price"`

	// ReturnPath is the site-relative page the browser returns to after
	// checkout, ex /account
	ReturnPath string `json:"return_path,omitempty" validate:"omitempty,startswith=/,max=2048"`
}

func (r *CreateCheckoutSessionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	return validateReturnPath(r.ReturnPath)
}

// validateReturnPath rejects paths a browser would resolve off-site. Browsers
// drop tab and newline bytes while parsing, so control bytes are refused
// outright rather than stripped.
func validateReturnPath(path string) error {
	if path == "" {
		return nil
	}
	if !isSiteRelative(path) {
		return ierr.NewError("return path must be site relative").
			WithHint("Invalid return path.").
			WithReportableDetails(map[string]any{
				"return_path": path,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func isSiteRelative(path string) bool {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return false
	}
	if strings.ContainsRune(path, '\\') {
		return false
	}
	for i := 0; i < len(path); i++ {
		if path[i] < 0x20 || path[i] == 0x7f {
			return false
		}
	}

	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.User == nil
}

// CreateCheckoutSessionResponse carries either a session or an error
// redirect, never both
type CreateCheckoutSessionResponse struct {
	SessionID     string `json:"session_id,omitempty"`
	URL           string `json:"url,omitempty"`
	ErrorRedirect string `json:"error_redirect,omitempty"`
}

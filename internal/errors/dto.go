package errors

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Display string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// DefaultDisplayMessage is shown when an error carries no hint
const DefaultDisplayMessage = "An unknown error occurred."

// NewErrorResponse builds the response body for err
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    Code(err),
			Display: DisplayMessage(err),
			Details: SafeDetails(err),
		},
	}
}

// DisplayMessage returns the outermost non-empty hint attached to err
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	// GetAllHints is a post-order traversal; the outermost hint belongs to
	// the boundary that narrowed the error, so walk it backwards
	hints := errors.GetAllHints(err)
	for i := len(hints) - 1; i >= 0; i-- {
		if hint := strings.TrimSpace(hints[i]); hint != "" {
			return hint
		}
	}
	return DefaultDisplayMessage
}

// SafeDetails collects the details attached with WithReportableDetails
func SafeDetails(err error) map[string]any {
	details := make(map[string]any)
	if err == nil {
		return details
	}

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if !strings.HasPrefix(payload, reportablePrefix) {
				continue
			}
			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(payload[len(reportablePrefix):]), &jsonDetails); err == nil {
				for k, v := range jsonDetails {
					details[k] = v
				}
			}
		}
	}

	return details
}

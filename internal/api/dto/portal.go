package dto

import "github.com/flexprice/billingsession/internal/validator"

type CreatePortalSessionResponse struct {
	URL string `json:"url"`
}

// PortalErrorResponse is the structured error returned to programmatic
// portal callers
type PortalErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PortalRedirectRequest struct {
	Path string `form:"path" validate:"omitempty,startswith=/,max=2048"`
}

func (r *PortalRedirectRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateReturnPath(r.Path)
}

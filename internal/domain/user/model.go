package user

import (
	"context"

	"github.com/flexprice/billingsession/internal/types"
)

// User is the authenticated end user as reported by the identity provider.
// It is never persisted by this service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IsAuthenticated reports whether u identifies a signed-in user
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != ""
}

// FromContext returns the user the request was authenticated as, or nil
func FromContext(ctx context.Context) *User {
	id := types.GetUserID(ctx)
	if id == "" {
		return nil
	}
	return &User{ID: id, Email: types.GetUserEmail(ctx)}
}

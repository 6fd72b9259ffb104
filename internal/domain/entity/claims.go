package entity

import "time"

// SessionClaims are the authorization attributes of an authenticated
// resident session. OrgID and PropertyID scope every document and
// submission; a session missing either cannot proceed.
type SessionClaims struct {
	UserID     string
	OrgID      string
	PropertyID string
	Name       string
	Email      string
	ExpiresAt  time.Time
}

// Validate checks that the scoping identifiers required by every
// downstream operation are present
func (c SessionClaims) Validate() error {
	if c.UserID == "" {
		return NewUnauthorizedError("session has no user id")
	}
	if c.OrgID == "" || c.PropertyID == "" {
		return NewUnauthorizedError("account is missing organization or property assignment")
	}
	return nil
}

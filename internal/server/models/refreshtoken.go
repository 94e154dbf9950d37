package models

import "time"

// RefreshToken is the server-side record backing a refresh JWT. The JWT's jti
// claim must match TokenID for the token to be accepted; rotation deletes the
// row, which revokes the old token even before its natural expiry.
type RefreshToken struct {
	TokenID string
	UserID  string
	Expires time.Time
}

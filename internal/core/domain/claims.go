package domain

import "time"

// SessionClaims is the identity carried inside a signed token. Tokens are
// replaced, never edited.
type SessionClaims struct {
	TokenID   string
	Email     string
	UserID    string
	RoleID    int
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Actor is the verified identity performing a request.
type Actor struct {
	UserID string
	RoleID int
}

// Actor returns the acting identity encoded in the claims.
func (c SessionClaims) Actor() Actor {
	return Actor{UserID: c.UserID, RoleID: c.RoleID}
}

// CanManage reports whether the actor may act on the account identified by userID.
func (a Actor) CanManage(userID string) bool {
	return IsAdmin(a.RoleID) || (a.UserID != "" && a.UserID == userID)
}

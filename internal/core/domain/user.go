package domain

import (
	"strings"
	"time"
)

const (
	RoleAdminID    = 1
	RoleCustomerID = 2
)

// Role is static reference data; role 1 carries the admin capability.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DefaultRoles are seeded at startup when the role collection is empty.
var DefaultRoles = []Role{
	{ID: RoleAdminID, Name: "admin"},
	{ID: RoleCustomerID, Name: "customer"},
}

// User models a stored credential: an email bound to a password hash and a role.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"roleId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether roleID grants the admin capability.
func IsAdmin(roleID int) bool {
	return roleID == RoleAdminID
}

// NormalizeEmail is applied on every read and write so uniqueness is
// evaluated on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

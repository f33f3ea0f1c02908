package domain

import "time"

// Role determines what a user may access.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

// User represents an account holder in the system.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the caller has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess reports whether the caller may see a resource owned by ownerID.
func (p Principal) CanAccess(ownerID int64) bool {
	return p.IsAdmin() || p.UserID == ownerID
}

package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleUser grants standard access: posting reviews and comments.
	RoleUser Role = "user"
	// RoleModerator grants edit/delete rights over any review or comment.
	RoleModerator Role = "moderator"
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Role        Role      `json:"role"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Superusers are automatically admins, regardless of their role field.
// This escalation path is intentional and must not be collapsed into Role.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}

// IsModerator returns true if the user holds the moderator role.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// IsUser returns true if the user holds the plain user role.
func (u *User) IsUser() bool {
	return u.Role == RoleUser
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Touch updates the modification timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// InitTimestamps sets creation and modification timestamps for a new record.
func (u *User) InitTimestamps() {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
}

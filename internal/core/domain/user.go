package domain

import "time"

// UserRole defines what a user is allowed to do with the books.
type UserRole string

const (
	RoleViewer UserRole = "VIEWER"
	RoleEditor UserRole = "EDITOR"
	RoleAdmin  UserRole = "ADMIN"
)

// CanEdit reports whether the role permits write operations
// (entry creation, offset confirmation, resequencing).
func (r UserRole) CanEdit() bool {
	return r == RoleEditor || r == RoleAdmin
}

// CanView reports whether the role permits read operations.
func (r UserRole) CanView() bool {
	return r == RoleViewer || r.CanEdit()
}

// User represents a user of the application.
type User struct {
	UserID       string   `json:"userID"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

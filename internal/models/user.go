package models

import "time"

// UserRole defines what a user is allowed to do with the books.
type UserRole string

const (
	RoleViewer UserRole = "VIEWER"
	RoleEditor UserRole = "EDITOR"
	RoleAdmin  UserRole = "ADMIN"
)

// User represents a row of the users table.
type User struct {
	UserID       string   `db:"user_id"`
	Username     string   `db:"username"`
	PasswordHash string   `db:"password_hash"`
	Name         string   `db:"name"`
	Role         UserRole `db:"role"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

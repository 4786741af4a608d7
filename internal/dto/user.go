package dto

import "github.com/openacct/openacct/internal/core/domain"

// RegisterUserRequest defines the data needed to register a user.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest defines the credentials for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	UserID      string          `json:"userID"`
	Username    string          `json:"username"`
	Role        domain.UserRole `json:"role"`
	AccessToken string          `json:"accessToken"`
}

// UpdateUserRoleRequest changes a user's role (admin only).
type UpdateUserRoleRequest struct {
	Role domain.UserRole `json:"role" binding:"required,oneof=VIEWER EDITOR ADMIN"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID   string          `json:"userID"`
	Username string          `json:"username"`
	Name     string          `json:"name"`
	Role     domain.UserRole `json:"role"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
	}
}

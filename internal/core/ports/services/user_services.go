package services

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
)

// AuthorizerSvc is the identity capability consumed by the other services:
// it resolves the current user and checks whether they hold the required role.
type AuthorizerSvc interface {
	// AuthorizeUserAction returns apperrors.ErrForbidden when the user lacks
	// the required role, apperrors.ErrNotFound when the user does not exist.
	AuthorizeUserAction(ctx context.Context, userID string, required domain.UserRole) error
}

// UserSvcFacade defines user operations.
type UserSvcFacade interface {
	AuthorizerSvc
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, requestingUserID string) (*domain.User, error)
}

package repositories

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
)

// UserRepositoryFacade defines persistence operations for Users.
type UserRepositoryFacade interface {
	SaveUser(ctx context.Context, user domain.User) error
	// HasAnyUser reports whether at least one user exists, deleted or not.
	HasAnyUser(ctx context.Context) (bool, error)
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portsrepo "github.com/openacct/openacct/internal/core/ports/repositories"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
)

// userService resolves users and acts as the identity capability consumed by
// the bookkeeping services: it answers "may this user edit/view the books".
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// AuthorizeUserAction checks whether the user holds the required role.
func (s *userService) AuthorizeUserAction(ctx context.Context, userID string, required domain.UserRole) error {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.DeletedAt != nil {
		return apperrors.ErrNotFound
	}

	allowed := false
	switch required {
	case domain.RoleViewer:
		allowed = user.Role.CanView()
	case domain.RoleEditor:
		allowed = user.Role.CanEdit()
	case domain.RoleAdmin:
		allowed = user.Role == domain.RoleAdmin
	}
	if !allowed {
		return fmt.Errorf("%w: user %s requires role %s", apperrors.ErrForbidden, userID, required)
	}
	return nil
}

// UpdateUserRole changes a user's role. Admin only.
func (s *userService) UpdateUserRole(ctx context.Context, userID string, role domain.UserRole, requestingUserID string) (*domain.User, error) {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, domain.RoleAdmin); err != nil {
		s.LogWarn(ctx, "Authorization failed for UpdateUserRole",
			slog.String("user_id", requestingUserID), slog.String("target_user_id", userID))
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = requestingUserID
	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user role", slog.String("target_user_id", userID))
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	s.LogInfo(ctx, "User role updated", slog.String("target_user_id", userID), slog.String("role", string(role)))
	return user, nil
}

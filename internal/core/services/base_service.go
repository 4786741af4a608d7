package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openacct/openacct/internal/apperrors"
	"github.com/openacct/openacct/internal/core/domain"
	portssvc "github.com/openacct/openacct/internal/core/ports/services"
	"github.com/openacct/openacct/internal/middleware"
)

// maxConflictRetries bounds how often a conflicting write is rerun before the
// conflict is surfaced for the client to resubmit.
const maxConflictRetries = 3

// BaseService provides common functionality for all services.
type BaseService struct {
	Authorizer portssvc.AuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting.
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting.
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeUser checks whether the user holds the required role. A nil
// authorizer grants access, which only happens in tests that wire services
// directly.
func (s *BaseService) AuthorizeUser(ctx context.Context, userID string, required domain.UserRole) error {
	if s.Authorizer == nil {
		s.LogDebug(ctx, "No authorizer provided, access granted by default",
			slog.String("user_id", userID),
			slog.String("required_role", string(required)))
		return nil
	}
	return s.Authorizer.AuthorizeUserAction(ctx, userID, required)
}

// RetryOnConflict reruns fn while it reports a retryable write conflict.
// Serialization and deadlock failures map to apperrors.ErrConflict in the
// repository layer, so a bounded rerun usually clears them.
func (s *BaseService) RetryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err = fn()
		if !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		s.LogWarn(ctx, "Write conflict, retrying", slog.Int("attempt", attempt))
	}
	return err
}

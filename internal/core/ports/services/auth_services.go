package services

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

// AuthSvcFacade defines authentication operations.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

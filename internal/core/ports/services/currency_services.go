package services

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/dto"
)

// CurrencySvcFacade defines currency management operations.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest, requestingUserID string) (*domain.Currency, error)
	DeleteCurrency(ctx context.Context, currencyCode string, requestingUserID string) error
}

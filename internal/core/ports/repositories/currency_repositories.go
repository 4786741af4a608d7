package repositories

import (
	"context"

	"github.com/openacct/openacct/internal/core/domain"
)

// CurrencyRepositoryFacade defines persistence operations for Currencies.
type CurrencyRepositoryFacade interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	UpdateCurrency(ctx context.Context, currency domain.Currency) error
	DeleteCurrency(ctx context.Context, currencyCode string) error
	// IsCurrencyUsed reports whether any line item references the currency.
	IsCurrencyUsed(ctx context.Context, currencyCode string) (bool, error)
}

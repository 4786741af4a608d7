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
	"github.com/openacct/openacct/internal/dto"
)

// currencyService manages the currency catalogue.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade, authorizer portssvc.AuthorizerSvc) portssvc.CurrencySvcFacade {
	return &currencyService{
		BaseService:  BaseService{Authorizer: authorizer},
		currencyRepo: currencyRepo,
	}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

// CreateCurrency registers a new currency.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, domain.RoleEditor); err != nil {
		return nil, err
	}

	existing, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check currency code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, req.CurrencyCode)
	}

	now := time.Now().UTC()
	currency := domain.Currency{
		CurrencyCode: req.CurrencyCode,
		Symbol:       req.Symbol,
		Name:         req.Name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		s.LogError(ctx, err, "Failed to save currency", slog.String("currency_code", req.CurrencyCode))
		return nil, fmt.Errorf("failed to save currency: %w", err)
	}

	s.LogInfo(ctx, "Currency created", slog.String("currency_code", currency.CurrencyCode))
	return &currency, nil
}

// GetCurrencyByCode retrieves one currency.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	return s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
}

// ListCurrencies returns all currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}

// UpdateCurrency applies partial updates to a currency.
func (s *currencyService) UpdateCurrency(ctx context.Context, currencyCode string, req dto.UpdateCurrencyRequest, requestingUserID string) (*domain.Currency, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return nil, err
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Symbol != nil {
		currency.Symbol = *req.Symbol
		updated = true
	}
	if req.Name != nil {
		currency.Name = *req.Name
		updated = true
	}
	if !updated {
		return currency, nil
	}

	currency.LastUpdatedAt = time.Now().UTC()
	currency.LastUpdatedBy = requestingUserID
	if err := s.currencyRepo.UpdateCurrency(ctx, *currency); err != nil {
		s.LogError(ctx, err, "Failed to update currency", slog.String("currency_code", currencyCode))
		return nil, fmt.Errorf("failed to update currency: %w", err)
	}
	return currency, nil
}

// DeleteCurrency removes a currency that is not referenced by any line item.
func (s *currencyService) DeleteCurrency(ctx context.Context, currencyCode string, requestingUserID string) error {
	if err := s.AuthorizeUser(ctx, requestingUserID, domain.RoleEditor); err != nil {
		return err
	}

	used, err := s.currencyRepo.IsCurrencyUsed(ctx, currencyCode)
	if err != nil {
		return fmt.Errorf("failed to check currency usage: %w", err)
	}
	if used {
		return fmt.Errorf("%w: currency %s is referenced by line items", apperrors.ErrValidation, currencyCode)
	}

	if err := s.currencyRepo.DeleteCurrency(ctx, currencyCode); err != nil {
		s.LogError(ctx, err, "Failed to delete currency", slog.String("currency_code", currencyCode))
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	s.LogInfo(ctx, "Currency deleted", slog.String("currency_code", currencyCode))
	return nil
}

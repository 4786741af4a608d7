package mapping

import (
	"github.com/openacct/openacct/internal/core/domain"
	"github.com/openacct/openacct/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		Code:        d.Code,
		BaseCode:    d.BaseCode,
		No:          d.No,
		Name:        d.Name,
		AccountType: models.AccountType(d.AccountType),
		NeedsOffset: d.NeedsOffset,
		Description: d.Description,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		Code:        m.Code,
		BaseCode:    m.BaseCode,
		No:          m.No,
		Name:        m.Name,
		AccountType: domain.AccountType(m.AccountType),
		NeedsOffset: m.NeedsOffset,
		Description: m.Description,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

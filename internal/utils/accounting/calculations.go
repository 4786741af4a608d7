package accounting

import (
	"fmt"

	"github.com/openacct/openacct/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line item amount based on
// the account's normal-balance convention. This is used in services and
// repositories to keep the accounting arithmetic in one place.
//
// DEBIT to a debit-normal account  -> Positive (+)
// CREDIT to a debit-normal account -> Negative (-)
// DEBIT to a credit-normal account  -> Negative (-)
// CREDIT to a credit-normal account -> Positive (+)
func CalculateSignedAmount(item domain.LineItem, accountType domain.AccountType) (decimal.Decimal, error) {
	if !accountType.Valid() {
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, item.AccountID)
	}
	return item.SignedAmount(accountType.NormalBalance()), nil
}

// ValidateEntryBalance checks that the line items of a journal entry balance:
// for every currency appearing in the entry, the sum of debit amounts must
// equal the sum of credit amounts, and all amounts must be positive.
func ValidateEntryBalance(items []domain.LineItem) error {
	if len(items) < 2 {
		return fmt.Errorf("journal entry must have at least two line items")
	}

	zero := decimal.NewFromInt(0)
	debits := make(map[string]decimal.Decimal)
	credits := make(map[string]decimal.Decimal)

	for _, item := range items {
		if item.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("line item amount must be positive for line item ID %s", item.LineItemID)
		}
		if item.CurrencyCode == "" {
			return fmt.Errorf("line item %s has no currency", item.LineItemID)
		}
		switch item.Side {
		case domain.Debit:
			debits[item.CurrencyCode] = debits[item.CurrencyCode].Add(item.Amount)
		case domain.Credit:
			credits[item.CurrencyCode] = credits[item.CurrencyCode].Add(item.Amount)
		default:
			return fmt.Errorf("line item %s has unknown side '%s'", item.LineItemID, item.Side)
		}
	}

	for code, debitSum := range debits {
		if !debitSum.Equal(credits[code]) {
			return fmt.Errorf("entry does not balance for currency %s: debits %s, credits %s",
				code, debitSum.String(), credits[code].String())
		}
	}
	for code, creditSum := range credits {
		if _, ok := debits[code]; !ok {
			return fmt.Errorf("entry does not balance for currency %s: debits 0, credits %s",
				code, creditSum.String())
		}
	}

	return nil
}

package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance indicates which side increases an account's balance.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalance returns the balance convention for the account type.
// Assets and expenses grow with debits; liabilities, equity and revenue
// grow with credits.
func (t AccountType) NormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Side returns the entry side that carries the convention: the side on which
// originals of an offset-tracked account are recorded.
func (n NormalBalance) Side() EntrySide {
	if n == DebitNormal {
		return Debit
	}
	return Credit
}

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a financial account within the chart of accounts.
// Code is hierarchical (e.g. "1141"); BaseCode identifies the base account
// category the account belongs to, and No orders siblings under the same base.
type Account struct {
	AccountID   string      `json:"accountID"`   // Primary Key (UUID)
	Code        string      `json:"code"`        // Unique hierarchical code
	BaseCode    string      `json:"baseCode"`    // Base account category code
	No          int         `json:"no"`          // Order among siblings under BaseCode
	Name        string      `json:"name"`        // User-defined title
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	NeedsOffset bool        `json:"needsOffset"` // Line items must net to zero against offsets
	Description string      `json:"description"` // Nullable user description
	IsActive    bool        `json:"isActive"`
	AuditFields
}

package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsDebitNormal reports whether the account type increases with debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a chart-of-accounts line within an entity.
type Account struct {
	AccountID   string          `json:"accountID"` // Primary Key (UUID)
	EntityID    string          `json:"entityID"`  // FK -> entities.entity_id (NON-NULL)
	Code        string          `json:"code"`      // Unique within the entity
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"`
	Status      RecordStatus    `json:"status"`
	Balance     decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}

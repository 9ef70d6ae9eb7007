package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a chart-of-accounts row within the ledger.
type Account struct {
	AccountID   string          `db:"account_id"`
	EntityID    string          `db:"entity_id"`
	Code        string          `db:"code"` // Unique per entity
	Name        string          `db:"name"`
	AccountType string          `db:"account_type"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}

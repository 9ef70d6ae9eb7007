package models

import (
	"github.com/shopspring/decimal"
)

// Fund represents a restricted or unrestricted pool of money within an entity.
type Fund struct {
	FundID      string          `db:"fund_id"`
	EntityID    string          `db:"entity_id"`
	Code        string          `db:"code"` // Unique per entity
	Name        string          `db:"name"`
	FundType    string          `db:"fund_type"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}

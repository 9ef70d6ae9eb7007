package domain

import (
	"github.com/shopspring/decimal"
)

// FundType classifies a fund per nonprofit accounting restriction rules.
type FundType string

const (
	Unrestricted          FundType = "UNRESTRICTED"
	TemporarilyRestricted FundType = "TEMPORARILY_RESTRICTED"
	PermanentlyRestricted FundType = "PERMANENTLY_RESTRICTED"
)

// Fund represents a restricted or unrestricted pool of money tracked within an entity.
// Funds are credit-normal: credits to a fund's lines increase its balance.
type Fund struct {
	FundID      string          `json:"fundID"`   // Primary Key (UUID)
	EntityID    string          `json:"entityID"` // FK -> entities.entity_id (NON-NULL)
	Code        string          `json:"code"`     // Unique within the entity
	Name        string          `json:"name"`
	FundType    FundType        `json:"fundType"`
	Description string          `json:"description"`
	Status      RecordStatus    `json:"status"`
	Balance     decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundActivityRow is one dated movement against a fund, used by the fund
// activity and fund statement reports.
type FundActivityRow struct {
	EntryDate       time.Time       `json:"entryDate"`
	ReferenceNumber string          `json:"referenceNumber"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// FundStatement is the full statement for a single fund.
type FundStatement struct {
	Fund           Fund              `json:"fund"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	Activity       []FundActivityRow `json:"activity"`
	TotalDebits    decimal.Decimal   `json:"totalDebits"`
	TotalCredits   decimal.Decimal   `json:"totalCredits"`
	ClosingBalance decimal.Decimal   `json:"closingBalance"`
}

// FundComparisonRow is one fund's balance in a side-by-side comparison report.
type FundComparisonRow struct {
	FundID   string          `json:"fundID"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	FundType FundType        `json:"fundType"`
	Balance  decimal.Decimal `json:"balance"`
}

// ConsolidatedBalance is an entity's own balance plus the summed balances of
// its direct children. Deeper descendants are not rolled up.
type ConsolidatedBalance struct {
	EntityID     string          `json:"entityID"`
	OwnBalance   decimal.Decimal `json:"ownBalance"`
	Children     []EntityBalance `json:"children"`
	Consolidated decimal.Decimal `json:"consolidated"`
}

// EntityBalance is one entity's aggregate fund balance.
type EntityBalance struct {
	EntityID string          `json:"entityID"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
}

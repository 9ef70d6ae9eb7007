package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
	Void   JournalStatus = "VOID"
)

// CanTransitionTo reports whether the status machine allows the given transition.
// Draft -> Posted, Draft -> Void, Posted -> Void. Void is terminal, and only a
// Draft entry may be edited.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	switch s {
	case Draft:
		return next == Posted || next == Void
	case Posted:
		return next == Void
	default:
		return false
	}
}

// BalanceEpsilon is the tolerated absolute difference between total debits and
// total credits of a posted journal entry, in currency units.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// JournalEntry represents a dated, balanced transaction record composed of lines.
// An inter-entity transfer is two JournalEntry rows, one per entity, whose
// MatchingTransactionID fields point at each other.
type JournalEntry struct {
	JournalEntryID        string          `json:"journalEntryID"` // Primary Key (UUID)
	EntityID              string          `json:"entityID"`       // FK -> entities.entity_id (NON-NULL)
	EntryDate             time.Time       `json:"entryDate"`
	ReferenceNumber       string          `json:"referenceNumber"` // Human reference, unique
	Description           string          `json:"description"`
	TotalAmount           decimal.Decimal `json:"totalAmount"` // Sum of the debit side
	Status                JournalStatus   `json:"status"`
	IsInterEntity         bool            `json:"isInterEntity"`
	TargetEntityID        *string         `json:"targetEntityID"`        // Counterparty entity for a transfer
	MatchingTransactionID *string         `json:"matchingTransactionID"` // Paired entry's id
	ImportID              *string         `json:"importID"`              // Provenance tag for bulk-loaded rows
	AuditFields

	// Lines are loaded separately and populated on demand.
	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// JournalEntryLine is one debit-or-credit movement against an account (and
// optionally a fund) within a journal entry. Exactly one of DebitAmount and
// CreditAmount is normally nonzero.
type JournalEntryLine struct {
	LineID         string          `json:"lineID"`         // Primary Key (UUID)
	JournalEntryID string          `json:"journalEntryID"` // FK -> journal_entries (NON-NULL)
	AccountID      string          `json:"accountID"`      // FK -> accounts (NON-NULL)
	FundID         *string         `json:"fundID"`         // Nullable FK -> funds
	DebitAmount    decimal.Decimal `json:"debitAmount"`    // >= 0
	CreditAmount   decimal.Decimal `json:"creditAmount"`   // >= 0
	Description    string          `json:"description"`
	AuditFields
}

// TotalDebits sums the debit side of the given lines.
func TotalDebits(lines []JournalEntryLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.DebitAmount)
	}
	return sum
}

// TotalCredits sums the credit side of the given lines.
func TotalCredits(lines []JournalEntryLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.CreditAmount)
	}
	return sum
}

// IsBalanced reports whether debits equal credits within BalanceEpsilon.
func IsBalanced(lines []JournalEntryLine) bool {
	diff := TotalDebits(lines).Sub(TotalCredits(lines)).Abs()
	return diff.LessThanOrEqual(BalanceEpsilon)
}

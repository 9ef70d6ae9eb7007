package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a dated, balanced transaction record.
type JournalEntry struct {
	JournalEntryID        string          `db:"journal_entry_id"`
	EntityID              string          `db:"entity_id"`
	EntryDate             time.Time       `db:"entry_date"`
	ReferenceNumber       string          `db:"reference_number"`
	Description           string          `db:"description"`
	TotalAmount           decimal.Decimal `db:"total_amount"`
	Status                string          `db:"status"`
	IsInterEntity         bool            `db:"is_inter_entity"`
	TargetEntityID        *string         `db:"target_entity_id"`        // Nullable
	MatchingTransactionID *string         `db:"matching_transaction_id"` // Nullable
	ImportID              *string         `db:"import_id"`               // Nullable
	AuditFields
}

// JournalEntryLine is one debit-or-credit movement within a journal entry.
type JournalEntryLine struct {
	LineID         string          `db:"line_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	AccountID      string          `db:"account_id"`
	FundID         *string         `db:"fund_id"` // Nullable
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	Description    string          `db:"description"`
	AuditFields
}

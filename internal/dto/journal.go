package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is a single debit or credit line inside a journal entry request.
type CreateJournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	FundID       *string         `json:"fundID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description"`
}

// CreateJournalEntryRequest is the body for POST /entities/{entityID}/journal-entries.
type CreateJournalEntryRequest struct {
	EntryDate       time.Time                  `json:"entryDate" binding:"required"`
	ReferenceNumber string                     `json:"referenceNumber"`
	Description     string                     `json:"description"`
	Status          string                     `json:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	Lines           []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest is the body for PUT /journal-entries/{id}.
// Only draft entries accept updates. A non-nil Lines slice replaces every line.
type UpdateJournalEntryRequest struct {
	EntryDate       *time.Time                 `json:"entryDate"`
	ReferenceNumber *string                    `json:"referenceNumber"`
	Description     *string                    `json:"description"`
	Lines           []CreateJournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

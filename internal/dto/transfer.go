package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// CreateTransferRequest is the body for POST /transfers. Account codes are
// resolved against each entity's own chart of accounts.
type CreateTransferRequest struct {
	SourceEntityID            string          `json:"sourceEntityID" binding:"required"`
	TargetEntityID            string          `json:"targetEntityID" binding:"required"`
	Amount                    decimal.Decimal `json:"amount" binding:"required"`
	EntryDate                 time.Time       `json:"entryDate" binding:"required"`
	Description               string          `json:"description"`
	SourceCashAccountCode     string          `json:"sourceCashAccountCode" binding:"required"`
	SourceTransferAccountCode string          `json:"sourceTransferAccountCode" binding:"required"`
	TargetCashAccountCode     string          `json:"targetCashAccountCode" binding:"required"`
	TargetTransferAccountCode string          `json:"targetTransferAccountCode" binding:"required"`
}

// TransferResponse carries the mirrored pair created by a transfer.
type TransferResponse struct {
	SourceEntry domain.JournalEntry `json:"sourceEntry"`
	TargetEntry domain.JournalEntry `json:"targetEntry"`
}

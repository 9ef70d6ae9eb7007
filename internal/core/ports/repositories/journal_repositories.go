package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
)

// BalanceChanges maps an account or fund id to the signed balance delta a write
// applies to it. Computed by services, applied by repositories inside the same
// database transaction as the journal rows.
type BalanceChanges map[string]decimal.Decimal

// JournalRepositoryFacade defines persistence operations for journal entries
// and their lines. Every method that writes more than one row executes inside
// a single database transaction: an entry and its lines, or a transfer's two
// mirrored entries, are never partially visible.
type JournalRepositoryFacade interface {
	// SaveJournalEntry inserts the entry with its lines. Account and fund
	// balance changes are applied only when the entry is saved as Posted.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, accountChanges, fundChanges BalanceChanges) error

	FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error)
	FindLinesByJournalEntryID(ctx context.Context, journalEntryID string) ([]domain.JournalEntryLine, error)
	ListJournalEntriesByEntity(ctx context.Context, entityID string, status *domain.JournalStatus) ([]domain.JournalEntry, error)

	// UpdateDraftJournalEntry replaces a draft entry's header fields and lines.
	UpdateDraftJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// SetJournalEntryStatus transitions the entry and applies the given balance
	// deltas atomically (post applies the entry's effect, void reverses it).
	SetJournalEntryStatus(ctx context.Context, journalEntryID string, status domain.JournalStatus, accountChanges, fundChanges BalanceChanges, at time.Time) error

	// DeleteJournalEntry removes a draft entry and its lines.
	DeleteJournalEntry(ctx context.Context, journalEntryID string) error

	// SaveTransferPair inserts both mirrored entries of an inter-entity
	// transfer, their lines and balance effects in one transaction.
	SaveTransferPair(ctx context.Context, source, target domain.JournalEntry, sourceLines, targetLines []domain.JournalEntryLine, accountChanges, fundChanges BalanceChanges) error

	// SaveImportBatch inserts every entry (with its populated Lines) in one
	// transaction, invoking onProgress after each entry and aborting with a
	// full rollback when ctx is cancelled between entries.
	SaveImportBatch(ctx context.Context, entries []domain.JournalEntry, accountChanges, fundChanges BalanceChanges, onProgress func(done int)) error

	// DeleteJournalEntriesByImportID deletes every entry tagged with the import
	// id (lines cascade), reversing their balance effects, and reports how many
	// entries were removed.
	DeleteJournalEntriesByImportID(ctx context.Context, importID string) (int64, error)
}

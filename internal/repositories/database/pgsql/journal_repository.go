package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nonprofit-suite/fund_accounting_app/internal/apperrors"
	"github.com/nonprofit-suite/fund_accounting_app/internal/core/domain"
	portsrepo "github.com/nonprofit-suite/fund_accounting_app/internal/core/ports/repositories"
	"github.com/nonprofit-suite/fund_accounting_app/internal/models"
	"github.com/nonprofit-suite/fund_accounting_app/internal/utils/mapping"
)

const journalEntryColumns = `journal_entry_id, entity_id, entry_date, reference_number, description, total_amount, status, is_inter_entity, target_entity_id, matching_transaction_id, import_id, created_at, last_updated_at`

const journalLineColumns = `line_id, journal_entry_id, account_id, fund_id, debit_amount, credit_amount, description, created_at, last_updated_at`

const insertEntryQuery = `
	INSERT INTO journal_entries (` + journalEntryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
`

const insertLineQuery = `
	INSERT INTO journal_entry_lines (` + journalLineColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// insertEntryTx writes one journal entry header inside the transaction.
func (r *PgxJournalRepository) insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	model := mapping.ToModelJournalEntry(entry)
	_, err := tx.Exec(ctx, insertEntryQuery,
		model.JournalEntryID,
		model.EntityID,
		model.EntryDate,
		model.ReferenceNumber,
		model.Description,
		model.TotalAmount,
		model.Status,
		model.IsInterEntity,
		model.TargetEntityID,
		model.MatchingTransactionID,
		model.ImportID,
		model.CreatedAt,
		model.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal entry reference %q already exists", apperrors.ErrDuplicate, model.ReferenceNumber)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", model.JournalEntryID, err)
	}
	return nil
}

// insertLinesTx batches the line inserts of one or more entries.
func (r *PgxJournalRepository) insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		model := mapping.ToModelJournalEntryLine(line)
		batch.Queue(insertLineQuery,
			model.LineID,
			model.JournalEntryID,
			model.AccountID,
			model.FundID,
			model.DebitAmount,
			model.CreditAmount,
			model.Description,
			model.CreatedAt,
			model.LastUpdatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert journal entry lines: %w", err)
	}
	return nil
}

// applyBalanceChangesTx adds the signed deltas to the balance column of the
// given table. Ids are processed in sorted order so concurrent writers lock
// rows in the same sequence.
func (r *PgxJournalRepository) applyBalanceChangesTx(ctx context.Context, tx pgx.Tx, table, idColumn string, changes portsrepo.BalanceChanges, at time.Time) error {
	if len(changes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	query := fmt.Sprintf(`UPDATE %s SET balance = balance + $2, last_updated_at = $3 WHERE %s = $1;`, table, idColumn)
	for _, id := range ids {
		tag, err := tx.Exec(ctx, query, id, changes[id], at)
		if err != nil {
			return fmt.Errorf("failed to update balance of %s %s: %w", table, id, err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found during balance update", table, id))
		}
	}
	return nil
}

func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, accountChanges, fundChanges portsrepo.BalanceChanges) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := r.applyBalanceChangesTx(ctx, tx, "accounts", "account_id", accountChanges, now); err != nil {
		return err
	}
	if err := r.applyBalanceChangesTx(ctx, tx, "funds", "fund_id", fundChanges, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, journalEntryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE journal_entry_id = $1;`

	rows, err := r.Pool.Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entry %s: %w", journalEntryID, err)
	}
	model, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found", journalEntryID))
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", journalEntryID, err)
	}

	entry := mapping.ToDomainJournalEntry(model)
	return &entry, nil
}

func (r *PgxJournalRepository) FindLinesByJournalEntryID(ctx context.Context, journalEntryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + journalLineColumns + ` FROM journal_entry_lines WHERE journal_entry_id = $1 ORDER BY line_id;`

	rows, err := r.Pool.Query(ctx, query, journalEntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of journal entry %s: %w", journalEntryID, err)
	}
	modelLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, fmt.Errorf("failed to collect journal line rows: %w", err)
	}
	return mapping.ToDomainJournalEntryLineSlice(modelLines), nil
}

func (r *PgxJournalRepository) ListJournalEntriesByEntity(ctx context.Context, entityID string, status *domain.JournalStatus) ([]domain.JournalEntry, error) {
	query := `SELECT ` + journalEntryColumns + ` FROM journal_entries WHERE entity_id = $1`
	args := []any{entityID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY entry_date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for entity %s: %w", entityID, err)
	}
	modelEntries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, fmt.Errorf("failed to collect journal entry rows: %w", err)
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nil
}

func (r *PgxJournalRepository) UpdateDraftJournalEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	model := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET entry_date = $2, reference_number = $3, description = $4, total_amount = $5, last_updated_at = $6
		WHERE journal_entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, query,
		model.JournalEntryID,
		model.EntryDate,
		model.ReferenceNumber,
		model.Description,
		model.TotalAmount,
		model.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", model.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not an editable draft", apperrors.ErrConflict, model.JournalEntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1;`, model.JournalEntryID); err != nil {
		return fmt.Errorf("failed to clear lines of journal entry %s: %w", model.JournalEntryID, err)
	}
	if err := r.insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) SetJournalEntryStatus(ctx context.Context, journalEntryID string, status domain.JournalStatus, accountChanges, fundChanges portsrepo.BalanceChanges, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`UPDATE journal_entries SET status = $2, last_updated_at = $3 WHERE journal_entry_id = $1;`,
		journalEntryID, string(status), at)
	if err != nil {
		return fmt.Errorf("failed to set status of journal entry %s: %w", journalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("journal entry %s not found", journalEntryID))
	}

	if err := r.applyBalanceChangesTx(ctx, tx, "accounts", "account_id", accountChanges, at); err != nil {
		return err
	}
	if err := r.applyBalanceChangesTx(ctx, tx, "funds", "fund_id", fundChanges, at); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) DeleteJournalEntry(ctx context.Context, journalEntryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE journal_entry_id = $1;`, journalEntryID); err != nil {
		return fmt.Errorf("failed to delete lines of journal entry %s: %w", journalEntryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE journal_entry_id = $1 AND status = 'DRAFT';`, journalEntryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", journalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not a deletable draft", apperrors.ErrConflict, journalEntryID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxJournalRepository) SaveTransferPair(ctx context.Context, source, target domain.JournalEntry, sourceLines, targetLines []domain.JournalEntryLine, accountChanges, fundChanges portsrepo.BalanceChanges) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertEntryTx(ctx, tx, source); err != nil {
		return err
	}
	if err := r.insertEntryTx(ctx, tx, target); err != nil {
		return err
	}
	if err := r.insertLinesTx(ctx, tx, sourceLines); err != nil {
		return err
	}
	if err := r.insertLinesTx(ctx, tx, targetLines); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := r.applyBalanceChangesTx(ctx, tx, "accounts", "account_id", accountChanges, now); err != nil {
		return err
	}
	if err := r.applyBalanceChangesTx(ctx, tx, "funds", "fund_id", fundChanges, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveImportBatch writes every entry and its lines in one transaction. The
// context is checked between entries so a cancelled import aborts with a full
// rollback instead of a partial load.
func (r *PgxJournalRepository) SaveImportBatch(ctx context.Context, entries []domain.JournalEntry, accountChanges, fundChanges portsrepo.BalanceChanges, onProgress func(done int)) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(context.WithoutCancel(ctx), tx)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import batch aborted after %d of %d entries: %w", i, len(entries), err)
		}
		if err := r.insertEntryTx(ctx, tx, entry); err != nil {
			return err
		}
		if err := r.insertLinesTx(ctx, tx, entry.Lines); err != nil {
			return err
		}
		if onProgress != nil {
			onProgress(i + 1)
		}
	}

	now := time.Now().UTC()
	if err := r.applyBalanceChangesTx(ctx, tx, "accounts", "account_id", accountChanges, now); err != nil {
		return err
	}
	if err := r.applyBalanceChangesTx(ctx, tx, "funds", "fund_id", fundChanges, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteJournalEntriesByImportID removes every entry tagged with the import id
// and reverses the balance effects of its posted entries, all in one
// transaction.
func (r *PgxJournalRepository) DeleteJournalEntriesByImportID(ctx context.Context, importID string) (int64, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	now := time.Now().UTC()

	// Reverse account balances: subtract each account's aggregate signed effect.
	accountReversal := `
		UPDATE accounts a
		SET balance = a.balance - agg.delta, last_updated_at = $2
		FROM (
			SELECT l.account_id,
			       SUM(CASE WHEN ac.account_type IN ('ASSET', 'EXPENSE')
			                THEN l.debit_amount - l.credit_amount
			                ELSE l.credit_amount - l.debit_amount END) AS delta
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
			JOIN accounts ac ON ac.account_id = l.account_id
			WHERE e.import_id = $1 AND e.status = 'POSTED'
			GROUP BY l.account_id
		) agg
		WHERE a.account_id = agg.account_id;
	`
	if _, err := tx.Exec(ctx, accountReversal, importID, now); err != nil {
		return 0, fmt.Errorf("failed to reverse account balances for import %s: %w", importID, err)
	}

	// Funds are credit-normal.
	fundReversal := `
		UPDATE funds f
		SET balance = f.balance - agg.delta, last_updated_at = $2
		FROM (
			SELECT l.fund_id,
			       SUM(l.credit_amount - l.debit_amount) AS delta
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.journal_entry_id = l.journal_entry_id
			WHERE e.import_id = $1 AND e.status = 'POSTED' AND l.fund_id IS NOT NULL
			GROUP BY l.fund_id
		) agg
		WHERE f.fund_id = agg.fund_id;
	`
	if _, err := tx.Exec(ctx, fundReversal, importID, now); err != nil {
		return 0, fmt.Errorf("failed to reverse fund balances for import %s: %w", importID, err)
	}

	deleteLines := `
		DELETE FROM journal_entry_lines
		WHERE journal_entry_id IN (SELECT journal_entry_id FROM journal_entries WHERE import_id = $1);
	`
	if _, err := tx.Exec(ctx, deleteLines, importID); err != nil {
		return 0, fmt.Errorf("failed to delete lines for import %s: %w", importID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE import_id = $1;`, importID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete journal entries for import %s: %w", importID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

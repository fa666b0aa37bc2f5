package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/finbooks/finbooks/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, entry_number, reference, entry_date, description, status, total_debit, total_credit, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`

const itemColumns = `item_id, entry_id, account_id, description, debit_amount, credit_amount`

type PgxJournalRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

// newPgxJournalRepository creates a new repository for journal data. The
// account repository provides the row-locking and balance steps that share
// its transactions.
func newPgxJournalRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{Pool: pool}, accounts}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.EntryNumber,
		&e.Reference,
		&e.EntryDate,
		&e.Description,
		&e.Status,
		&e.TotalDebit,
		&e.TotalCredit,
		&e.ApprovedBy,
		&e.ApprovedAt,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry: %w", err)
	}
	return &entry, nil
}

func (r *PgxJournalRepository) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	query := `SELECT ` + itemColumns + ` FROM journal_items WHERE entry_id = $1 ORDER BY item_id;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal items: %w", err)
	}
	defer rows.Close()

	var items []domain.JournalItem
	for rows.Next() {
		var item domain.JournalItem
		if err := rows.Scan(&item.ItemID, &item.EntryID, &item.AccountID, &item.Description, &item.DebitAmount, &item.CreditAmount); err != nil {
			return nil, fmt.Errorf("failed to scan journal item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal item rows: %w", err)
	}
	return items, nil
}

func (r *PgxJournalRepository) ListEntriesByDateRange(ctx context.Context, start, end time.Time, status *domain.EntryStatus, limit, offset int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE entry_date >= $1 AND entry_date <= $2
	`
	args := []any{start, end}
	if status != nil {
		query += ` AND status = $3`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY entry_date DESC, entry_number DESC LIMIT %d OFFSET %d;`, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

// nextDocumentNumber scans the highest number issued under a day prefix
// within the transaction and returns its successor. The scan and the
// subsequent insert share the transaction, so concurrent writers conflict
// on the entry number's unique index rather than silently duplicating.
func nextDocumentNumber(ctx context.Context, tx pgx.Tx, table, column, dayPrefix string) (string, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), '') FROM %s WHERE %s LIKE $1;`, column, table, column)
	var maxExisting string
	if err := tx.QueryRow(ctx, query, dayPrefix+"%").Scan(&maxExisting); err != nil {
		return "", fmt.Errorf("failed to scan max document number: %w", err)
	}
	return accounting.NextNumber(dayPrefix, maxExisting), nil
}

// InsertEntryInTx persists a header plus items within tx, generating the
// entry number when absent. Numbers are issued under the current day, not
// the entry date, so backdated entries keep today's sequence.
func (r *PgxJournalRepository) InsertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, items []domain.JournalItem) (string, error) {
	entryNumber := entry.EntryNumber
	if entryNumber == "" {
		var err error
		entryNumber, err = nextDocumentNumber(ctx, tx, "journal_entries", "entry_number", accounting.DayPrefix(accounting.EntryNumberPrefix, time.Now()))
		if err != nil {
			return "", err
		}
	}

	headerQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entryNumber,
		entry.Reference,
		entry.EntryDate,
		entry.Description,
		entry.Status,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.ApprovedBy,
		entry.ApprovedAt,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert journal entry: %w", err)
	}

	itemQuery := `
		INSERT INTO journal_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(itemQuery, item.ItemID, item.EntryID, item.AccountID, item.Description, item.DebitAmount, item.CreditAmount)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert journal item: %w", err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close journal item batch: %w", err)
	}
	if batchErr != nil {
		return "", batchErr
	}
	return entryNumber, nil
}

// MarkPostedInTx flips draft -> posted with totals within tx. Zero affected
// rows means the entry is missing or no longer a draft.
func (r *PgxJournalRepository) MarkPostedInTx(ctx context.Context, tx pgx.Tx, entryID string, totalDebit, totalCredit decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, total_debit = $3, total_credit = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND status = $7;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, domain.EntryPosted, totalDebit, totalCredit, now, userID, domain.EntryDraft)
	if err != nil {
		return fmt.Errorf("failed to mark entry posted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrInvalidState, entryID)
	}
	return nil
}

// MarkVoidedInTx flips posted|approved -> voided within tx.
func (r *PgxJournalRepository) MarkVoidedInTx(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status IN ($5, $6);
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, domain.EntryVoided, now, userID, domain.EntryPosted, domain.EntryApproved)
	if err != nil {
		return fmt.Errorf("failed to mark entry voided: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not posted or approved", apperrors.ErrInvalidState, entryID)
	}
	return nil
}

// SaveEntry persists a draft header plus all items atomically.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, items []domain.JournalItem) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := r.InsertEntryInTx(ctx, tx, entry, items)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// PostEntry is the atomic posting unit: the touched account rows are
// locked, the status flipped, and every balance delta applied, in one
// transaction.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entryID string, totalDebit, totalCredit decimal.Decimal, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accounts.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	if err := r.MarkPostedInTx(ctx, tx, entryID, totalDebit, totalCredit, userID, now); err != nil {
		return err
	}
	if err := r.accounts.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ApproveEntry transitions posted -> approved; a single guarded update.
func (r *PgxJournalRepository) ApproveEntry(ctx context.Context, entryID, approverID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE entry_id = $1 AND status = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, domain.EntryApproved, approverID, now, domain.EntryPosted)
	if err != nil {
		return fmt.Errorf("failed to approve entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not posted", apperrors.ErrInvalidState, entryID)
	}
	return nil
}

// VoidEntry mirrors PostEntry with the reversal deltas.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accounts.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	if err := r.MarkVoidedInTx(ctx, tx, entryID, userID, now); err != nil {
		return err
	}
	if err := r.accounts.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

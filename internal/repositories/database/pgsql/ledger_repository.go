package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger reporting reads.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// AccountLedger joins an account's journal items with their entry headers,
// excluding drafts. Voided entries stay in the result; the service decides
// how they weigh on the running balance.
func (r *PgxLedgerRepository) AccountLedger(ctx context.Context, accountID string, start, end time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT ji.item_id, ji.entry_id, ji.account_id, ji.description, ji.debit_amount, ji.credit_amount,
		       je.entry_number, je.entry_date, je.reference, je.description, je.status
		FROM journal_items ji
		JOIN journal_entries je ON je.entry_id = ji.entry_id
		WHERE ji.account_id = $1
		  AND je.status <> $2
		  AND je.entry_date >= $3 AND je.entry_date <= $4
		ORDER BY je.entry_date, je.entry_number, ji.item_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, domain.EntryDraft, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query account ledger: %w", err)
	}
	defer rows.Close()

	var lines []domain.LedgerLine
	for rows.Next() {
		var line domain.LedgerLine
		err := rows.Scan(
			&line.ItemID,
			&line.EntryID,
			&line.AccountID,
			&line.Description,
			&line.DebitAmount,
			&line.CreditAmount,
			&line.EntryNumber,
			&line.EntryDate,
			&line.EntryReference,
			&line.EntryDescription,
			&line.EntryStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger lines: %w", err)
	}
	return lines, nil
}

// AccountBalanceAsOf aggregates the signed balance of an account from
// posted and approved entries dated on or before asOf, applying the
// normal-balance rule in SQL.
func (r *PgxLedgerRepository) AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE WHEN a.account_type IN ('asset', 'expense')
			     THEN ji.debit_amount - ji.credit_amount
			     ELSE ji.credit_amount - ji.debit_amount
			END
		), 0)
		FROM journal_items ji
		JOIN journal_entries je ON je.entry_id = ji.entry_id
		JOIN accounts a ON a.account_id = ji.account_id
		WHERE ji.account_id = $1
		  AND je.status IN ($2, $3)
		  AND je.entry_date <= $4;
	`
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, accountID, domain.EntryPosted, domain.EntryApproved, asOf).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute balance as of %s: %w", asOf.Format("2006-01-02"), err)
	}
	return balance, nil
}

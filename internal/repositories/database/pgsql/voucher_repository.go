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

const voucherColumns = `voucher_id, voucher_number, voucher_type, voucher_date, due_date, reference, party_type, party_id, description, amount, status, journal_entry_id, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`

const voucherItemColumns = `item_id, voucher_id, account_id, description, amount, tax_rate, tax_amount`

const paymentColumns = `payment_id, voucher_id, payment_date, amount, payment_method, account_id, reference, notes, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
	journal  *PgxJournalRepository
}

// newPgxVoucherRepository creates a new repository for voucher data. The
// account and journal repositories contribute the in-transaction steps of
// the approval and payment flows.
func newPgxVoucherRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository, journal *PgxJournalRepository) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository{Pool: pool}, accounts, journal}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (domain.Voucher, error) {
	var v domain.Voucher
	err := row.Scan(
		&v.VoucherID,
		&v.VoucherNumber,
		&v.VoucherType,
		&v.VoucherDate,
		&v.DueDate,
		&v.Reference,
		&v.PartyType,
		&v.PartyID,
		&v.Description,
		&v.Amount,
		&v.Status,
		&v.JournalEntryID,
		&v.ApprovedBy,
		&v.ApprovedAt,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	return v, err
}

func scanVoucherRows(rows pgx.Rows) ([]domain.Voucher, error) {
	defer rows.Close()
	var vouchers []domain.Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}
	return vouchers, nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`
	voucher, err := scanVoucher(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher: %w", err)
	}
	return &voucher, nil
}

func (r *PgxVoucherRepository) FindItemsByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherItem, error) {
	query := `SELECT ` + voucherItemColumns + ` FROM voucher_items WHERE voucher_id = $1 ORDER BY item_id;`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher items: %w", err)
	}
	defer rows.Close()

	var items []domain.VoucherItem
	for rows.Next() {
		var item domain.VoucherItem
		if err := rows.Scan(&item.ItemID, &item.VoucherID, &item.AccountID, &item.Description, &item.Amount, &item.TaxRate, &item.TaxAmount); err != nil {
			return nil, fmt.Errorf("failed to scan voucher item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher item rows: %w", err)
	}
	return items, nil
}

func (r *PgxVoucherRepository) FindPaymentsByVoucherID(ctx context.Context, voucherID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE voucher_id = $1 ORDER BY payment_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.PaymentID, &p.VoucherID, &p.PaymentDate, &p.Amount, &p.PaymentMethod, &p.AccountID, &p.Reference, &p.Notes, &p.JournalEntryID, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, voucherType domain.VoucherType, status *domain.VoucherStatus, limit, offset int) ([]domain.Voucher, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_type = $1`
	args := []any{voucherType}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY voucher_date DESC, voucher_number DESC LIMIT %d OFFSET %d;`, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return scanVoucherRows(rows)
}

func (r *PgxVoucherRepository) ListOverdueVouchers(ctx context.Context, voucherType domain.VoucherType, asOf time.Time) ([]domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE voucher_type = $1
		  AND due_date IS NOT NULL AND due_date < $2
		  AND status IN ($3, $4)
		ORDER BY due_date, voucher_number;
	`
	rows, err := r.Pool.Query(ctx, query, voucherType, asOf, domain.VoucherApproved, domain.VoucherPartiallyPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue vouchers: %w", err)
	}
	return scanVoucherRows(rows)
}

func (r *PgxVoucherRepository) ListOpenVouchersByParty(ctx context.Context, voucherType domain.VoucherType, partyType domain.PartyType, partyID string) ([]domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + `
		FROM vouchers
		WHERE voucher_type = $1 AND party_type = $2 AND party_id = $3
		  AND status IN ($4, $5)
		ORDER BY voucher_date, voucher_number;
	`
	rows, err := r.Pool.Query(ctx, query, voucherType, partyType, partyID, domain.VoucherApproved, domain.VoucherPartiallyPaid)
	if err != nil {
		return nil, fmt.Errorf("failed to list open vouchers by party: %w", err)
	}
	return scanVoucherRows(rows)
}

// insertVoucherInTx persists the voucher header plus items, generating the
// AR-/AP- number when absent.
func (r *PgxVoucherRepository) insertVoucherInTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher, items []domain.VoucherItem) (string, error) {
	voucherNumber := voucher.VoucherNumber
	if voucherNumber == "" {
		prefix := accounting.PayableNumberPrefix
		if voucher.VoucherType == domain.Receivable {
			prefix = accounting.ReceivableNumberPrefix
		}
		var err error
		voucherNumber, err = nextDocumentNumber(ctx, tx, "vouchers", "voucher_number", accounting.DayPrefix(prefix, time.Now()))
		if err != nil {
			return "", err
		}
	}

	headerQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := tx.Exec(ctx, headerQuery,
		voucher.VoucherID,
		voucherNumber,
		voucher.VoucherType,
		voucher.VoucherDate,
		voucher.DueDate,
		voucher.Reference,
		voucher.PartyType,
		voucher.PartyID,
		voucher.Description,
		voucher.Amount,
		voucher.Status,
		voucher.JournalEntryID,
		voucher.ApprovedBy,
		voucher.ApprovedAt,
		voucher.CreatedAt,
		voucher.CreatedBy,
		voucher.LastUpdatedAt,
		voucher.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert voucher: %w", err)
	}

	itemQuery := `
		INSERT INTO voucher_items (` + voucherItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(itemQuery, item.ItemID, item.VoucherID, item.AccountID, item.Description, item.Amount, item.TaxRate, item.TaxAmount)
	}
	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert voucher item: %w", err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close voucher item batch: %w", err)
	}
	if batchErr != nil {
		return "", batchErr
	}
	return voucherNumber, nil
}

// SaveVoucher persists a draft voucher plus items atomically.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, items []domain.VoucherItem) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	voucherNumber, err := r.insertVoucherInTx(ctx, tx, voucher, items)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return voucherNumber, nil
}

// lockAndApply locks the accounts touched by balanceChanges and applies the
// deltas. Shared by the approval, payment and void flows.
func (r *PgxVoucherRepository) lockAndApply(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, err := r.accounts.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return err
	}
	return r.accounts.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now)
}

// ApproveVoucher is the atomic approval unit: journal entry inserted and
// posted, balances applied, voucher flipped draft -> approved with the
// entry linked.
func (r *PgxVoucherRepository) ApproveVoucher(ctx context.Context, voucherID, approverID string, now time.Time, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.journal.InsertEntryInTx(ctx, tx, entry, entryItems); err != nil {
		return "", err
	}
	if err := r.journal.MarkPostedInTx(ctx, tx, entry.EntryID, entry.TotalDebit, entry.TotalCredit, approverID, now); err != nil {
		return "", err
	}
	if err := r.lockAndApply(ctx, tx, balanceChanges, approverID, now); err != nil {
		return "", err
	}

	voucherQuery := `
		UPDATE vouchers
		SET status = $2, journal_entry_id = $3, approved_by = $4, approved_at = $5, last_updated_at = $5, last_updated_by = $4
		WHERE voucher_id = $1 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, voucherQuery, voucherID, domain.VoucherApproved, entry.EntryID, approverID, now, domain.VoucherDraft)
	if err != nil {
		return "", fmt.Errorf("failed to approve voucher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: voucher %s is not a draft", apperrors.ErrInvalidState, voucherID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entry.EntryID, nil
}

// RecordPayment is the atomic settlement unit: journal entry inserted and
// posted, balances applied, payment stored, voucher status moved.
func (r *PgxVoucherRepository) RecordPayment(ctx context.Context, payment domain.Payment, newStatus domain.VoucherStatus, entry domain.JournalEntry, entryItems []domain.JournalItem, balanceChanges map[string]decimal.Decimal) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.journal.InsertEntryInTx(ctx, tx, entry, entryItems); err != nil {
		return "", err
	}
	if err := r.journal.MarkPostedInTx(ctx, tx, entry.EntryID, entry.TotalDebit, entry.TotalCredit, payment.CreatedBy, entry.LastUpdatedAt); err != nil {
		return "", err
	}
	if err := r.lockAndApply(ctx, tx, balanceChanges, payment.CreatedBy, entry.LastUpdatedAt); err != nil {
		return "", err
	}

	paymentQuery := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	entryID := entry.EntryID
	_, err = tx.Exec(ctx, paymentQuery,
		payment.PaymentID,
		payment.VoucherID,
		payment.PaymentDate,
		payment.Amount,
		payment.PaymentMethod,
		payment.AccountID,
		payment.Reference,
		payment.Notes,
		&entryID,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert payment: %w", err)
	}

	voucherQuery := `
		UPDATE vouchers
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status IN ($5, $6);
	`
	cmdTag, err := tx.Exec(ctx, voucherQuery, payment.VoucherID, newStatus, entry.LastUpdatedAt, payment.CreatedBy, domain.VoucherApproved, domain.VoucherPartiallyPaid)
	if err != nil {
		return "", fmt.Errorf("failed to update voucher status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return "", fmt.Errorf("%w: voucher %s is not payable", apperrors.ErrInvalidState, payment.VoucherID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entry.EntryID, nil
}

// VoidVoucher flips the voucher to voided; when a journal entry is linked
// it is voided and the reversal deltas applied in the same transaction.
func (r *PgxVoucherRepository) VoidVoucher(ctx context.Context, voucherID string, journalEntryID *string, reversalChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if journalEntryID != nil {
		if err := r.journal.MarkVoidedInTx(ctx, tx, *journalEntryID, userID, now); err != nil {
			return err
		}
		if err := r.lockAndApply(ctx, tx, reversalChanges, userID, now); err != nil {
			return err
		}
	}

	voucherQuery := `
		UPDATE vouchers
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND status IN ($5, $6);
	`
	cmdTag, err := tx.Exec(ctx, voucherQuery, voucherID, domain.VoucherVoided, now, userID, domain.VoucherDraft, domain.VoucherApproved)
	if err != nil {
		return fmt.Errorf("failed to void voucher: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s cannot be voided", apperrors.ErrInvalidState, voucherID)
	}

	return r.Commit(ctx, tx)
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const partyColumns = `party_id, party_type, name, email, phone, created_at, created_by, last_updated_at, last_updated_by`

type PgxPartyRepository struct {
	BaseRepository
}

// newPgxPartyRepository creates a new repository for party data.
func newPgxPartyRepository(pool *pgxpool.Pool) *PgxPartyRepository {
	return &PgxPartyRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxPartyRepository implements portsrepo.PartyRepositoryFacade
var _ portsrepo.PartyRepositoryFacade = (*PgxPartyRepository)(nil)

func scanParty(row pgx.Row) (domain.Party, error) {
	var p domain.Party
	err := row.Scan(
		&p.PartyID,
		&p.PartyType,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

func (r *PgxPartyRepository) SaveParty(ctx context.Context, party domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		party.PartyID,
		party.PartyType,
		party.Name,
		party.Email,
		party.Phone,
		party.CreatedAt,
		party.CreatedBy,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert party: %w", err)
	}
	return nil
}

func (r *PgxPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	query := `
		UPDATE parties
		SET name = $2, email = $3, phone = $4, last_updated_at = $5, last_updated_by = $6
		WHERE party_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		party.PartyID,
		party.Name,
		party.Email,
		party.Phone,
		party.LastUpdatedAt,
		party.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: party %s", apperrors.ErrNotFound, party.PartyID)
	}
	return nil
}

func (r *PgxPartyRepository) FindPartyByID(ctx context.Context, partyType domain.PartyType, partyID string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_type = $1 AND party_id = $2;`
	party, err := scanParty(r.Pool.QueryRow(ctx, query, partyType, partyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, partyType, partyID)
		}
		return nil, fmt.Errorf("failed to find party: %w", err)
	}
	return &party, nil
}

func (r *PgxPartyRepository) FindPartiesByIDs(ctx context.Context, partyType domain.PartyType, partyIDs []string) (map[string]domain.Party, error) {
	if len(partyIDs) == 0 {
		return map[string]domain.Party{}, nil
	}
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_type = $1 AND party_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, partyType, partyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query parties by IDs: %w", err)
	}
	defer rows.Close()

	parties := make(map[string]domain.Party)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties[p.PartyID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

func (r *PgxPartyRepository) ListParties(ctx context.Context, partyType domain.PartyType, limit, offset int) ([]domain.Party, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_type = $1 ORDER BY name LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, partyType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	var parties []domain.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party row: %w", err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating party rows: %w", err)
	}
	return parties, nil
}

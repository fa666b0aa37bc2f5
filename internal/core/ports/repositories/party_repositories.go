package repositories

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// PartyReader defines read operations for customers, suppliers and other
// counterparties.
type PartyReader interface {
	// FindPartyByID retrieves a party by type and ID.
	FindPartyByID(ctx context.Context, partyType domain.PartyType, partyID string) (*domain.Party, error)

	// FindPartiesByIDs retrieves multiple parties of one type by their IDs.
	FindPartiesByIDs(ctx context.Context, partyType domain.PartyType, partyIDs []string) (map[string]domain.Party, error)

	// ListParties retrieves parties of one type ordered by name.
	ListParties(ctx context.Context, partyType domain.PartyType, limit, offset int) ([]domain.Party, error)
}

// PartyWriter defines write operations for parties.
type PartyWriter interface {
	// SaveParty persists a new party.
	SaveParty(ctx context.Context, party domain.Party) error

	// UpdateParty updates a party's contact fields.
	UpdateParty(ctx context.Context, party domain.Party) error
}

// PartyRepositoryFacade combines all party repository interfaces.
type PartyRepositoryFacade interface {
	PartyReader
	PartyWriter
}

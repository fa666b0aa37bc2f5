package services

import (
	"context"

	"github.com/finbooks/finbooks/internal/core/domain"
	"github.com/finbooks/finbooks/internal/dto"
)

// PartySvcFacade defines operations for managing counterparties.
type PartySvcFacade interface {
	// CreateParty registers a new customer, supplier or other party.
	CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error)

	// GetPartyByID retrieves a party by type and ID.
	GetPartyByID(ctx context.Context, partyType domain.PartyType, partyID string) (*domain.Party, error)

	// UpdateParty updates a party's contact details.
	UpdateParty(ctx context.Context, partyType domain.PartyType, partyID string, req dto.UpdatePartyRequest, updaterUserID string) (*domain.Party, error)

	// ListParties retrieves parties of one type.
	ListParties(ctx context.Context, partyType domain.PartyType, params dto.ListPartiesParams) ([]domain.Party, error)
}

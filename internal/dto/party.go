package dto

import (
	"time"

	"github.com/finbooks/finbooks/internal/core/domain"
)

// CreatePartyRequest defines the data needed to register a counterparty.
type CreatePartyRequest struct {
	PartyType domain.PartyType `json:"partyType" binding:"required,oneof=customer supplier employee other"`
	Name      string           `json:"name" binding:"required"`
	Email     string           `json:"email" binding:"omitempty,email"`
	Phone     string           `json:"phone"`
}

// UpdatePartyRequest defines the data allowed for updating a party.
type UpdatePartyRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID       string           `json:"partyID"`
	PartyType     domain.PartyType `json:"partyType"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy string           `json:"lastUpdatedBy"`
}

// ToPartyResponse converts a domain.Party to PartyResponse DTO.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:       p.PartyID,
		PartyType:     p.PartyType,
		Name:          p.Name,
		Email:         p.Email,
		Phone:         p.Phone,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ToListPartyResponse converts a slice of domain.Party.
func ToListPartyResponse(parties []domain.Party) []PartyResponse {
	res := make([]PartyResponse, len(parties))
	for i, p := range parties {
		res[i] = ToPartyResponse(&p)
	}
	return res
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

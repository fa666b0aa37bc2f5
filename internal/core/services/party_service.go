package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// partyService manages the counterparties vouchers are raised against.
type partyService struct {
	partyRepo portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new party service.
func NewPartyService(partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{partyRepo: partyRepo}
}

// Ensure partyService implements the portssvc.PartySvcFacade interface
var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateParty(ctx context.Context, req dto.CreatePartyRequest, creatorUserID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	party := domain.Party{
		PartyID:   uuid.NewString(),
		PartyType: req.PartyType,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.partyRepo.SaveParty(ctx, party); err != nil {
		logger.Error("Failed to save party", slog.String("error", err.Error()), slog.String("party_id", party.PartyID))
		return nil, err
	}

	logger.Info("Party created", slog.String("party_id", party.PartyID), slog.String("type", string(party.PartyType)))
	return &party, nil
}

func (s *partyService) GetPartyByID(ctx context.Context, partyType domain.PartyType, partyID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, partyType, partyID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		}
		return nil, err
	}
	return party, nil
}

func (s *partyService) UpdateParty(ctx context.Context, partyType domain.PartyType, partyID string, req dto.UpdatePartyRequest, updaterUserID string) (*domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, partyType, partyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	party.LastUpdatedAt = time.Now()
	party.LastUpdatedBy = updaterUserID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		logger.Error("Failed to update party", slog.String("error", err.Error()), slog.String("party_id", partyID))
		return nil, err
	}

	logger.Info("Party updated", slog.String("party_id", partyID))
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, partyType domain.PartyType, params dto.ListPartiesParams) ([]domain.Party, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	parties, err := s.partyRepo.ListParties(ctx, partyType, params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list parties", slog.String("error", err.Error()), slog.String("type", string(partyType)))
		return nil, err
	}
	if parties == nil {
		return []domain.Party{}, nil
	}
	return parties, nil
}

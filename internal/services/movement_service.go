package services

import (
	"context"

	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
)

// LedgerCheck compares a product's live total against the replayed movement
// ledger. A mismatch means a quantity was changed outside the ledger.
type LedgerCheck struct {
	ProductID   uuid.UUID `json:"product_id"`
	LiveTotal   int       `json:"live_total"`
	LedgerTotal int       `json:"ledger_total"`
	Consistent  bool      `json:"consistent"`
}

// MovementService exposes the read side of the movement ledger.
type MovementService interface {
	ListMovements(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.MovementEntry, error)
	VerifyLedger(ctx context.Context, productID uuid.UUID) (*LedgerCheck, error)
}

type movementService struct {
	movementRepo repositories.MovementRepository
	ledger       StockLedger
}

func NewMovementService(movementRepo repositories.MovementRepository, ledger StockLedger) MovementService {
	return &movementService{movementRepo: movementRepo, ledger: ledger}
}

func (s *movementService) ListMovements(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.MovementEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.movementRepo.ListByProduct(ctx, productID, limit, offset)
}

func (s *movementService) VerifyLedger(ctx context.Context, productID uuid.UUID) (*LedgerCheck, error) {
	level, err := s.ledger.GetStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	ledgerTotal, err := s.movementRepo.SumDeltas(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &LedgerCheck{
		ProductID:   productID,
		LiveTotal:   level.Total(),
		LedgerTotal: ledgerTotal,
		Consistent:  level.Total() == ledgerTotal,
	}, nil
}

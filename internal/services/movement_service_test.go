package services

import (
	"context"
	"testing"

	"retailstock/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestVerifyLedger_ConsistentWhenTotalsMatch(t *testing.T) {
	movementRepo := new(MockMovementRepository)
	ledger := new(MockStockLedger)
	service := NewMovementService(movementRepo, ledger)
	productID := uuid.New()
	ctx := context.Background()

	ledger.On("GetStock", ctx, productID).
		Return(&models.StockLevel{ProductID: productID, WarehouseQuantity: 40, DisplayQuantity: 8}, nil)
	movementRepo.On("SumDeltas", ctx, productID).Return(48, nil)

	check, err := service.VerifyLedger(ctx, productID)

	assert.NoError(t, err)
	assert.True(t, check.Consistent)
	assert.Equal(t, 48, check.LiveTotal)
}

func TestVerifyLedger_FlagsDrift(t *testing.T) {
	movementRepo := new(MockMovementRepository)
	ledger := new(MockStockLedger)
	service := NewMovementService(movementRepo, ledger)
	productID := uuid.New()
	ctx := context.Background()

	ledger.On("GetStock", ctx, productID).
		Return(&models.StockLevel{ProductID: productID, WarehouseQuantity: 40, DisplayQuantity: 8}, nil)
	movementRepo.On("SumDeltas", ctx, productID).Return(45, nil)

	check, err := service.VerifyLedger(ctx, productID)

	assert.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.Equal(t, 45, check.LedgerTotal)
}

func TestListMovements_ClampsPageSize(t *testing.T) {
	movementRepo := new(MockMovementRepository)
	ledger := new(MockStockLedger)
	service := NewMovementService(movementRepo, ledger)
	productID := uuid.New()
	ctx := context.Background()

	movementRepo.On("ListByProduct", ctx, productID, 100, 0).
		Return([]*models.MovementEntry{}, nil)

	_, err := service.ListMovements(ctx, productID, -5, -1)

	assert.NoError(t, err)
	movementRepo.AssertCalled(t, "ListByProduct", ctx, productID, 100, 0)
}

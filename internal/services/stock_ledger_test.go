package services

import (
	"context"
	"testing"
	"time"

	"retailstock/internal/common"
	"retailstock/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func TestApplyPolicy(t *testing.T) {
	tests := []struct {
		name          string
		movement      models.MovementType
		warehouse     int
		display       int
		quantity      int
		wantWarehouse int
		wantDisplay   int
		wantErr       error
	}{
		{
			name:     "sale consumes display first and spills into warehouse",
			movement: models.MovementSale,
			warehouse: 50, display: 10, quantity: 12,
			wantWarehouse: 48, wantDisplay: 0,
		},
		{
			name:     "sale covered entirely by display",
			movement: models.MovementSale,
			warehouse: 50, display: 10, quantity: 7,
			wantWarehouse: 50, wantDisplay: 3,
		},
		{
			name:     "sale exceeding combined stock fails",
			movement: models.MovementSale,
			warehouse: 50, display: 8, quantity: 100,
			wantErr: common.ErrInsufficientStock,
		},
		{
			name:     "purchase receipt lands in warehouse",
			movement: models.MovementPurchaseReceipt,
			warehouse: 5, display: 2, quantity: 40,
			wantWarehouse: 45, wantDisplay: 2,
		},
		{
			name:     "replenish display draws warehouse down",
			movement: models.MovementReplenishDisplay,
			warehouse: 20, display: 0, quantity: 8,
			wantWarehouse: 12, wantDisplay: 0,
		},
		{
			name:     "replenish display cannot overdraw warehouse",
			movement: models.MovementReplenishDisplay,
			warehouse: 5, display: 0, quantity: 8,
			wantErr: common.ErrInsufficientStock,
		},
		{
			name:     "transfer in lands on display",
			movement: models.MovementTransferIn,
			warehouse: 12, display: 0, quantity: 8,
			wantWarehouse: 12, wantDisplay: 8,
		},
		{
			name:     "damage entry leaves both quantities untouched",
			movement: models.MovementDamage,
			warehouse: 30, display: 4, quantity: 3,
			wantWarehouse: 30, wantDisplay: 4,
		},
		{
			name:     "adjustment out cannot go negative",
			movement: models.MovementAdjustmentOut,
			warehouse: 2, display: 9, quantity: 5,
			wantErr: common.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, ok := tt.movement.Policy()
			assert.True(t, ok)

			gotWarehouse, gotDisplay, err := applyPolicy(policy, tt.warehouse, tt.display, tt.quantity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantWarehouse, gotWarehouse)
			assert.Equal(t, tt.wantDisplay, gotDisplay)
		})
	}
}

type StockLedgerTestSuite struct {
	suite.Suite
	mock          pgxmock.PgxPoolIface
	productRepo   *MockProductRepository
	inventoryRepo *MockInventoryRepository
	movementRepo  *MockMovementRepository
	cacheService  *MockCacheService
	ledger        StockLedger
	productID     uuid.UUID
	userID        uuid.UUID
	ctx           context.Context
}

func (suite *StockLedgerTestSuite) SetupTest() {
	mockPool, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mockPool

	suite.productRepo = new(MockProductRepository)
	suite.inventoryRepo = new(MockInventoryRepository)
	suite.movementRepo = new(MockMovementRepository)
	suite.cacheService = new(MockCacheService)
	suite.ledger = NewStockLedger(mockPool, suite.productRepo, suite.inventoryRepo, suite.movementRepo, suite.cacheService)
	suite.productID = uuid.New()
	suite.userID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *StockLedgerTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestStockLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(StockLedgerTestSuite))
}

func (suite *StockLedgerTestSuite) stubStock(warehouse, display int) {
	suite.productRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.Product{ID: suite.productID, DisplayQuantity: display}, nil)
	suite.inventoryRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.InventoryRecord{ProductID: suite.productID, WarehouseQuantity: warehouse}, nil)
}

func (suite *StockLedgerTestSuite) TestAdjust_SaleSpillsFromDisplayToWarehouse() {
	suite.stubStock(50, 10)
	suite.inventoryRepo.On("SetQuantity", suite.ctx, mock.Anything, suite.productID, 48).Return(nil)
	suite.productRepo.On("SetDisplayQuantity", suite.ctx, mock.Anything, suite.productID, 0).Return(nil)
	suite.movementRepo.On("Insert", suite.ctx, mock.Anything, mock.MatchedBy(func(e *models.MovementEntry) bool {
		return e.Movement == models.MovementSale && e.Quantity == 12
	})).Return(nil)

	newTotal, err := suite.ledger.Adjust(suite.ctx, suite.mock, AdjustParams{
		ProductID:   suite.productID,
		Delta:       -12,
		ReferenceID: uuid.New(),
		Movement:    models.MovementSale,
		PerformedBy: suite.userID,
		SourceTable: "sale",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 48, newTotal)
	suite.movementRepo.AssertExpectations(suite.T())
}

func (suite *StockLedgerTestSuite) TestAdjust_InsufficientStockWritesNothing() {
	suite.stubStock(50, 8)

	_, err := suite.ledger.Adjust(suite.ctx, suite.mock, AdjustParams{
		ProductID:   suite.productID,
		Delta:       -100,
		ReferenceID: uuid.New(),
		Movement:    models.MovementSale,
		PerformedBy: suite.userID,
		SourceTable: "sale",
	})

	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
	suite.inventoryRepo.AssertNotCalled(suite.T(), "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.movementRepo.AssertNotCalled(suite.T(), "Insert", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockLedgerTestSuite) TestAdjust_UnknownMovementRejected() {
	_, err := suite.ledger.Adjust(suite.ctx, suite.mock, AdjustParams{
		ProductID:   suite.productID,
		Delta:       5,
		Movement:    models.MovementType("TELEPORT"),
		PerformedBy: suite.userID,
	})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *StockLedgerTestSuite) TestAdjust_SignMismatchRejected() {
	_, err := suite.ledger.Adjust(suite.ctx, suite.mock, AdjustParams{
		ProductID:   suite.productID,
		Delta:       5, // SALE is outbound, delta must be negative
		Movement:    models.MovementSale,
		PerformedBy: suite.userID,
	})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
}

func (suite *StockLedgerTestSuite) TestAdjust_DamageRecordsWithoutQuantityChange() {
	suite.stubStock(30, 4)
	suite.movementRepo.On("Insert", suite.ctx, mock.Anything, mock.MatchedBy(func(e *models.MovementEntry) bool {
		return e.Movement == models.MovementDamage && e.Quantity == 3
	})).Return(nil)

	newTotal, err := suite.ledger.Adjust(suite.ctx, suite.mock, AdjustParams{
		ProductID:   suite.productID,
		Delta:       3,
		ReferenceID: uuid.New(),
		Movement:    models.MovementDamage,
		PerformedBy: suite.userID,
		SourceTable: "customer_return",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 34, newTotal)
	suite.inventoryRepo.AssertNotCalled(suite.T(), "SetQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.productRepo.AssertNotCalled(suite.T(), "SetDisplayQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StockLedgerTestSuite) TestAdjustStock_CommitsAndInvalidatesCache() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(pgxmock.NewResult("SET", 0))
	suite.mock.ExpectCommit()

	suite.stubStock(10, 0)
	suite.inventoryRepo.On("SetQuantity", suite.ctx, mock.Anything, suite.productID, 50).Return(nil)
	suite.movementRepo.On("Insert", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.cacheService.On("DeleteStockLevel", suite.ctx, suite.productID).Return(nil)

	newTotal, err := suite.ledger.AdjustStock(suite.ctx, AdjustParams{
		ProductID:   suite.productID,
		Delta:       40,
		ReferenceID: uuid.New(),
		Movement:    models.MovementPurchaseReceipt,
		PerformedBy: suite.userID,
		SourceTable: "stockin",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, newTotal)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.cacheService.AssertExpectations(suite.T())
}

func (suite *StockLedgerTestSuite) TestTransferToDisplay_WritesPairedEntries() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(pgxmock.NewResult("SET", 0))
	suite.mock.ExpectCommit()

	// First leg sees 20/0, second leg sees the warehouse already drawn down.
	suite.productRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.Product{ID: suite.productID, DisplayQuantity: 0}, nil).Once()
	suite.inventoryRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.InventoryRecord{ProductID: suite.productID, WarehouseQuantity: 20}, nil).Once()
	suite.inventoryRepo.On("SetQuantity", suite.ctx, mock.Anything, suite.productID, 12).Return(nil)

	suite.productRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.Product{ID: suite.productID, DisplayQuantity: 0}, nil).Once()
	suite.inventoryRepo.On("GetForUpdate", suite.ctx, mock.Anything, suite.productID).
		Return(&models.InventoryRecord{ProductID: suite.productID, WarehouseQuantity: 12}, nil).Once()
	suite.productRepo.On("SetDisplayQuantity", suite.ctx, mock.Anything, suite.productID, 8).Return(nil)

	var movements []models.MovementType
	suite.movementRepo.On("Insert", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			movements = append(movements, args.Get(2).(*models.MovementEntry).Movement)
		}).Return(nil)
	suite.cacheService.On("DeleteStockLevel", suite.ctx, suite.productID).Return(nil)

	err := suite.ledger.TransferToDisplay(suite.ctx, suite.productID, 8, suite.userID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []models.MovementType{models.MovementReplenishDisplay, models.MovementTransferIn}, movements)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockLedgerTestSuite) TestGetStock_CacheHitSkipsDatabase() {
	cached := &models.StockLevel{ProductID: suite.productID, WarehouseQuantity: 30, DisplayQuantity: 5}
	suite.cacheService.On("GetStockLevel", suite.ctx, suite.productID).Return(cached, nil)

	level, err := suite.ledger.GetStock(suite.ctx, suite.productID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 35, level.Total())
	suite.productRepo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *StockLedgerTestSuite) TestGetStock_MissingInventoryRowMeansZeroWarehouse() {
	suite.cacheService.On("GetStockLevel", suite.ctx, suite.productID).Return(nil, nil)
	suite.productRepo.On("GetByID", suite.ctx, suite.productID).
		Return(&models.Product{ID: suite.productID, DisplayQuantity: 4, UpdatedAt: time.Now()}, nil)
	suite.inventoryRepo.On("GetByProduct", suite.ctx, suite.productID).
		Return(nil, common.ErrNotFound)
	suite.cacheService.On("SetStockLevel", suite.ctx, mock.Anything, stockCacheTTL).Return(nil)

	level, err := suite.ledger.GetStock(suite.ctx, suite.productID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, level.WarehouseQuantity)
	assert.Equal(suite.T(), 4, level.DisplayQuantity)
}

func (suite *StockLedgerTestSuite) TestGetTotalStock() {
	cached := &models.StockLevel{ProductID: suite.productID, WarehouseQuantity: 12, DisplayQuantity: 8}
	suite.cacheService.On("GetStockLevel", suite.ctx, suite.productID).Return(cached, nil)

	total, err := suite.ledger.GetTotalStock(suite.ctx, suite.productID)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 20, total)
}

package services

import (
	"context"
	"time"

	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Shared repository and collaborator mocks for the service suites.

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetForUpdate(ctx context.Context, q repositories.Database, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) SetDisplayQuantity(ctx context.Context, q repositories.Database, id uuid.UUID, quantity int) error {
	args := m.Called(ctx, q, id, quantity)
	return args.Error(0)
}

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) GetForUpdate(ctx context.Context, q repositories.Database, productID uuid.UUID) (*models.InventoryRecord, error) {
	args := m.Called(ctx, q, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryRecord), args.Error(1)
}

func (m *MockInventoryRepository) SetQuantity(ctx context.Context, q repositories.Database, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, q, productID, quantity)
	return args.Error(0)
}

func (m *MockInventoryRepository) ListBelowReorder(ctx context.Context, limit int) ([]*models.StockLevel, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.StockLevel), args.Error(1)
}

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Insert(ctx context.Context, q repositories.Database, entry *models.MovementEntry) error {
	args := m.Called(ctx, q, entry)
	return args.Error(0)
}

func (m *MockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*models.MovementEntry, error) {
	args := m.Called(ctx, productID, limit, offset)
	return args.Get(0).([]*models.MovementEntry), args.Error(1)
}

func (m *MockMovementRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*models.MovementEntry, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]*models.MovementEntry), args.Error(1)
}

func (m *MockMovementRepository) SumDeltas(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

type MockAdjustmentRepository struct {
	mock.Mock
}

func (m *MockAdjustmentRepository) Create(ctx context.Context, q repositories.Database, req *models.ManualAdjustmentRequest) error {
	args := m.Called(ctx, q, req)
	return args.Error(0)
}

func (m *MockAdjustmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ManualAdjustmentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ManualAdjustmentRequest), args.Error(1)
}

func (m *MockAdjustmentRepository) GetForUpdate(ctx context.Context, q repositories.Database, id uuid.UUID) (*models.ManualAdjustmentRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ManualAdjustmentRequest), args.Error(1)
}

func (m *MockAdjustmentRepository) MarkResolved(ctx context.Context, q repositories.Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, notes *string) (bool, error) {
	args := m.Called(ctx, q, id, status, approvedBy, approvedAt, notes)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdjustmentRepository) ListPending(ctx context.Context, limit, offset int) ([]*models.ManualAdjustmentRequest, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.ManualAdjustmentRequest), args.Error(1)
}

type MockCustomerReturnRepository struct {
	mock.Mock
}

func (m *MockCustomerReturnRepository) Create(ctx context.Context, q repositories.Database, ret *models.CustomerReturn) error {
	args := m.Called(ctx, q, ret)
	return args.Error(0)
}

func (m *MockCustomerReturnRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerReturn), args.Error(1)
}

func (m *MockCustomerReturnRepository) GetForUpdate(ctx context.Context, q repositories.Database, id uuid.UUID) (*models.CustomerReturn, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomerReturn), args.Error(1)
}

func (m *MockCustomerReturnRepository) MarkDecided(ctx context.Context, q repositories.Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error) {
	args := m.Called(ctx, q, id, status, approvedBy, approvedAt, comments)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerReturnRepository) SumActiveForSaleItem(ctx context.Context, q repositories.Database, saleItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, q, saleItemID)
	return args.Int(0), args.Error(1)
}

type MockSupplierReturnRepository struct {
	mock.Mock
}

func (m *MockSupplierReturnRepository) Create(ctx context.Context, q repositories.Database, ret *models.SupplierReturn) error {
	args := m.Called(ctx, q, ret)
	return args.Error(0)
}

func (m *MockSupplierReturnRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SupplierReturn, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierReturn), args.Error(1)
}

func (m *MockSupplierReturnRepository) GetForUpdate(ctx context.Context, q repositories.Database, id uuid.UUID) (*models.SupplierReturn, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SupplierReturn), args.Error(1)
}

func (m *MockSupplierReturnRepository) MarkDecided(ctx context.Context, q repositories.Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error) {
	args := m.Called(ctx, q, id, status, approvedBy, approvedAt, comments)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierReturnRepository) SumActiveForStockIn(ctx context.Context, q repositories.Database, stockInID uuid.UUID) (int, error) {
	args := m.Called(ctx, q, stockInID)
	return args.Int(0), args.Error(1)
}

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) InsertSale(ctx context.Context, q repositories.Database, sale *models.Sale) error {
	args := m.Called(ctx, q, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) InsertItem(ctx context.Context, q repositories.Database, item *models.SaleItem) error {
	args := m.Called(ctx, q, item)
	return args.Error(0)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) GetItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SaleItem), args.Error(1)
}

func (m *MockSaleRepository) ListItems(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]*models.SaleItem), args.Error(1)
}

type MockStockInRepository struct {
	mock.Mock
}

func (m *MockStockInRepository) Insert(ctx context.Context, q repositories.Database, rec *models.StockInRecord) error {
	args := m.Called(ctx, q, rec)
	return args.Error(0)
}

func (m *MockStockInRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StockInRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockInRecord), args.Error(1)
}

func (m *MockStockInRepository) ListByPurchaseOrder(ctx context.Context, q repositories.Database, purchaseOrderID uuid.UUID) ([]*models.StockInRecord, error) {
	args := m.Called(ctx, q, purchaseOrderID)
	return args.Get(0).([]*models.StockInRecord), args.Error(1)
}

func (m *MockStockInRepository) GetPurchaseOrderForUpdate(ctx context.Context, q repositories.Database, purchaseOrderID uuid.UUID) (string, error) {
	args := m.Called(ctx, q, purchaseOrderID)
	return args.String(0), args.Error(1)
}

func (m *MockStockInRepository) SetPurchaseOrderStatus(ctx context.Context, q repositories.Database, purchaseOrderID uuid.UUID, status string) error {
	args := m.Called(ctx, q, purchaseOrderID, status)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetStockLevel(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockLevel), args.Error(1)
}

func (m *MockCacheService) SetStockLevel(ctx context.Context, level *models.StockLevel, ttl time.Duration) error {
	args := m.Called(ctx, level, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteStockLevel(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) Adjust(ctx context.Context, q repositories.Database, p AdjustParams) (int, error) {
	args := m.Called(ctx, q, p)
	return args.Int(0), args.Error(1)
}

func (m *MockStockLedger) AdjustStock(ctx context.Context, p AdjustParams) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *MockStockLedger) TransferToDisplay(ctx context.Context, productID uuid.UUID, quantity int, performedBy uuid.UUID) error {
	args := m.Called(ctx, productID, quantity, performedBy)
	return args.Error(0)
}

func (m *MockStockLedger) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockLevel), args.Error(1)
}

func (m *MockStockLedger) GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockLedger) InvalidateStock(ctx context.Context, productIDs ...uuid.UUID) {
	m.Called(ctx, productIDs)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordAudit(ctx context.Context, entity, entityID, action string, before, after models.JSONB, changedBy uuid.UUID) {
	m.Called(ctx, entity, entityID, action, before, after, changedBy)
}

func (m *MockAuditService) ListByEntity(ctx context.Context, entity, entityID string, limit, offset int) ([]*models.AuditLog, error) {
	args := m.Called(ctx, entity, entityID, limit, offset)
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

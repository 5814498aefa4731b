package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"retailstock/internal/caching"
	"retailstock/internal/common"
	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// stockCacheTTL bounds how stale the advisory stock cache may get. Mutations
// never read it.
const stockCacheTTL = time.Minute

// AdjustParams describes one stock change: who did what to which product, and
// which record explains it.
type AdjustParams struct {
	ProductID   uuid.UUID
	Delta       int
	ReferenceID uuid.UUID
	Movement    models.MovementType
	PerformedBy uuid.UUID
	SourceTable string
	TerminalID  *string
}

// StockLedger is the only path through which product quantities change. Every
// adjust locks the product's rows, re-reads quantities, applies the movement
// type's allocation policy and appends exactly one movement entry, all inside
// one transaction.
type StockLedger interface {
	// Adjust joins the caller's transaction q.
	Adjust(ctx context.Context, q repositories.Database, p AdjustParams) (int, error)
	// AdjustStock opens its own transaction around Adjust.
	AdjustStock(ctx context.Context, p AdjustParams) (int, error)
	// TransferToDisplay moves quantity from warehouse to display as a paired
	// warehouse-out / display-in entry in one transaction.
	TransferToDisplay(ctx context.Context, productID uuid.UUID, quantity int, performedBy uuid.UUID) error
	GetStock(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error)
	GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error)
	// InvalidateStock drops the advisory cache entry; callers invoke it after
	// their transaction commits. Best-effort.
	InvalidateStock(ctx context.Context, productIDs ...uuid.UUID)
}

type stockLedger struct {
	db            repositories.Pool
	productRepo   repositories.ProductRepository
	inventoryRepo repositories.InventoryRepository
	movementRepo  repositories.MovementRepository
	cacheService  caching.CacheService
}

func NewStockLedger(db repositories.Pool, productRepo repositories.ProductRepository,
	inventoryRepo repositories.InventoryRepository, movementRepo repositories.MovementRepository,
	cacheService caching.CacheService) StockLedger {
	return &stockLedger{
		db:            db,
		productRepo:   productRepo,
		inventoryRepo: inventoryRepo,
		movementRepo:  movementRepo,
		cacheService:  cacheService,
	}
}

// applyPolicy computes the post-movement quantities for one location pair.
// quantity is the unsigned magnitude.
func applyPolicy(policy models.MovementPolicy, warehouse, display, quantity int) (newWarehouse, newDisplay int, err error) {
	newWarehouse, newDisplay = warehouse, display
	switch policy.Allocation {
	case models.AllocDisplayFirst:
		if policy.Direction >= 0 {
			return 0, 0, fmt.Errorf("%w: display-first allocation is outbound only", common.ErrValidation)
		}
		if display+warehouse < quantity {
			return 0, 0, fmt.Errorf("%w: have %d, need %d", common.ErrInsufficientStock, display+warehouse, quantity)
		}
		fromDisplay := quantity
		if fromDisplay > display {
			fromDisplay = display
		}
		newDisplay = display - fromDisplay
		newWarehouse = warehouse - (quantity - fromDisplay)
	case models.AllocWarehouse:
		if policy.Direction > 0 {
			newWarehouse = warehouse + quantity
		} else {
			if warehouse < quantity {
				return 0, 0, fmt.Errorf("%w: warehouse has %d, need %d", common.ErrInsufficientStock, warehouse, quantity)
			}
			newWarehouse = warehouse - quantity
		}
	case models.AllocDisplay:
		if policy.Direction > 0 {
			newDisplay = display + quantity
		} else {
			if display < quantity {
				return 0, 0, fmt.Errorf("%w: display has %d, need %d", common.ErrInsufficientStock, display, quantity)
			}
			newDisplay = display - quantity
		}
	case models.AllocNone:
		// record-only movement, quantities untouched
	default:
		return 0, 0, fmt.Errorf("%w: invalid movement type", common.ErrValidation)
	}
	return newWarehouse, newDisplay, nil
}

func (s *stockLedger) Adjust(ctx context.Context, q repositories.Database, p AdjustParams) (int, error) {
	policy, ok := p.Movement.Policy()
	if !ok {
		return 0, fmt.Errorf("%w: invalid movement type %q", common.ErrValidation, p.Movement)
	}
	if p.Delta == 0 {
		return 0, fmt.Errorf("%w: delta must be non-zero", common.ErrValidation)
	}
	quantity := p.Delta
	if quantity < 0 {
		quantity = -quantity
	}
	if policy.Direction > 0 && p.Delta < 0 || policy.Direction < 0 && p.Delta > 0 {
		return 0, fmt.Errorf("%w: delta sign does not match movement type %q", common.ErrValidation, p.Movement)
	}

	// Exclusive lock on the product row first, then the inventory row. The
	// product lock covers display stock; the inventory lock covers warehouse
	// stock and is created lazily when onboarding skipped it.
	product, err := s.productRepo.GetForUpdate(ctx, q, p.ProductID)
	if err != nil {
		return 0, err
	}
	inv, err := s.inventoryRepo.GetForUpdate(ctx, q, p.ProductID)
	if err != nil {
		return 0, err
	}

	newWarehouse, newDisplay, err := applyPolicy(policy, inv.WarehouseQuantity, product.DisplayQuantity, quantity)
	if err != nil {
		return 0, err
	}

	if newWarehouse != inv.WarehouseQuantity {
		if err := s.inventoryRepo.SetQuantity(ctx, q, p.ProductID, newWarehouse); err != nil {
			return 0, err
		}
	}
	if newDisplay != product.DisplayQuantity {
		if err := s.productRepo.SetDisplayQuantity(ctx, q, p.ProductID, newDisplay); err != nil {
			return 0, err
		}
	}

	entry := &models.MovementEntry{
		ProductID:   p.ProductID,
		Movement:    p.Movement,
		Quantity:    quantity,
		ReferenceID: p.ReferenceID,
		PerformedBy: p.PerformedBy,
		SourceTable: p.SourceTable,
		TerminalID:  p.TerminalID,
	}
	if err := s.movementRepo.Insert(ctx, q, entry); err != nil {
		return 0, err
	}

	return newWarehouse + newDisplay, nil
}

func (s *stockLedger) AdjustStock(ctx context.Context, p AdjustParams) (int, error) {
	var newTotal int
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		newTotal, err = s.Adjust(ctx, tx, p)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.InvalidateStock(ctx, p.ProductID)
	return newTotal, nil
}

func (s *stockLedger) TransferToDisplay(ctx context.Context, productID uuid.UUID, quantity int, performedBy uuid.UUID) error {
	if err := common.ValidatePositiveQuantity(quantity, "transfer quantity"); err != nil {
		return err
	}
	// Pair the two entries under one reference so the ledger shows the
	// transfer as warehouse-out plus display-in.
	transferRef := uuid.New()
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.Adjust(ctx, tx, AdjustParams{
			ProductID:   productID,
			Delta:       -quantity,
			ReferenceID: transferRef,
			Movement:    models.MovementReplenishDisplay,
			PerformedBy: performedBy,
			SourceTable: "transfer",
		}); err != nil {
			return err
		}
		_, err := s.Adjust(ctx, tx, AdjustParams{
			ProductID:   productID,
			Delta:       quantity,
			ReferenceID: transferRef,
			Movement:    models.MovementTransferIn,
			PerformedBy: performedBy,
			SourceTable: "transfer",
		})
		return err
	})
	if err != nil {
		return err
	}
	s.InvalidateStock(ctx, productID)
	return nil
}

func (s *stockLedger) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error) {
	if cached, err := s.cacheService.GetStockLevel(ctx, productID); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("stock cache read failed for product %s: %v", productID.String(), err)
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	level := &models.StockLevel{
		ProductID:       productID,
		DisplayQuantity: product.DisplayQuantity,
	}
	inv, err := s.inventoryRepo.GetByProduct(ctx, productID)
	switch {
	case err == nil:
		level.WarehouseQuantity = inv.WarehouseQuantity
		level.ReorderLevel = inv.ReorderLevel
		level.LastUpdate = inv.LastUpdate
	case errors.Is(err, common.ErrNotFound):
		// No inventory row yet: the product has never moved, warehouse is zero.
		level.LastUpdate = product.UpdatedAt
	default:
		return nil, err
	}

	if err := s.cacheService.SetStockLevel(ctx, level, stockCacheTTL); err != nil {
		log.Printf("stock cache write failed for product %s: %v", productID.String(), err)
	}
	return level, nil
}

func (s *stockLedger) GetTotalStock(ctx context.Context, productID uuid.UUID) (int, error) {
	level, err := s.GetStock(ctx, productID)
	if err != nil {
		return 0, err
	}
	return level.Total(), nil
}

func (s *stockLedger) InvalidateStock(ctx context.Context, productIDs ...uuid.UUID) {
	for _, id := range productIDs {
		if err := s.cacheService.DeleteStockLevel(ctx, id); err != nil {
			log.Printf("failed to invalidate stock cache for product %s: %v", id.String(), err)
		}
	}
}

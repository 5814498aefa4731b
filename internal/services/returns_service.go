package services

import (
	"context"
	"fmt"
	"time"

	"retailstock/internal/common"
	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// autoApplyWindow is how long after the sale an elevated user can approve a
// customer return at creation time, skipping the pending queue.
const autoApplyWindow = 24 * time.Hour

// CreateCustomerReturnParams opens a return against one sale line.
type CreateCustomerReturnParams struct {
	SaleItemID uuid.UUID
	Quantity   int
	Reason     string
	ReturnType string
	CreatedBy  uuid.UUID
	Role       string
}

// CreateSupplierReturnParams sends received goods back against a stock-in line.
type CreateSupplierReturnParams struct {
	StockInID  uuid.UUID
	Quantity   int
	Reason     string
	ReturnType string
	CreatedBy  uuid.UUID
	Role       string
}

// DecideReturnParams carries an approver's decision on a pending return.
type DecideReturnParams struct {
	ReturnID  uuid.UUID
	Approve   bool
	Comments  *string
	DecidedBy uuid.UUID
	Role      string
}

// ReturnsService runs both return flows. Approval branches on the reason: a
// customer return restocks the warehouse and a supplier return ships goods out
// of it, unless the reason marks the goods unsellable, in which case only a
// record-only damage entry is written.
type ReturnsService interface {
	CreateCustomerReturn(ctx context.Context, p CreateCustomerReturnParams) (*models.CustomerReturn, error)
	DecideCustomerReturn(ctx context.Context, p DecideReturnParams) (*models.CustomerReturn, error)
	GetCustomerReturn(ctx context.Context, id uuid.UUID) (*models.CustomerReturn, error)
	CreateSupplierReturn(ctx context.Context, p CreateSupplierReturnParams) (*models.SupplierReturn, error)
	DecideSupplierReturn(ctx context.Context, p DecideReturnParams) (*models.SupplierReturn, error)
	GetSupplierReturn(ctx context.Context, id uuid.UUID) (*models.SupplierReturn, error)
}

type returnsService struct {
	db                 repositories.Pool
	customerReturnRepo repositories.CustomerReturnRepository
	supplierReturnRepo repositories.SupplierReturnRepository
	saleRepo           repositories.SaleRepository
	stockInRepo        repositories.StockInRepository
	ledger             StockLedger
	auditService       AuditService
}

func NewReturnsService(db repositories.Pool, customerReturnRepo repositories.CustomerReturnRepository,
	supplierReturnRepo repositories.SupplierReturnRepository, saleRepo repositories.SaleRepository,
	stockInRepo repositories.StockInRepository, ledger StockLedger, auditService AuditService) ReturnsService {
	return &returnsService{
		db:                 db,
		customerReturnRepo: customerReturnRepo,
		supplierReturnRepo: supplierReturnRepo,
		saleRepo:           saleRepo,
		stockInRepo:        stockInRepo,
		ledger:             ledger,
		auditService:       auditService,
	}
}

func validReturnType(t string) bool {
	return t == models.ReturnTypeRefund || t == models.ReturnTypeReplace
}

// applyCustomerReturn writes the stock effect of an approved customer return.
// Sellable goods go back into the warehouse; damaged or expired goods get a
// record-only damage entry so the ledger still shows them coming back.
func (s *returnsService) applyCustomerReturn(ctx context.Context, tx pgx.Tx, ret *models.CustomerReturn, decidedBy uuid.UUID) error {
	movement := models.MovementReturn
	if models.IsWriteOffReason(ret.Reason) {
		movement = models.MovementDamage
	}
	_, err := s.ledger.Adjust(ctx, tx, AdjustParams{
		ProductID:   ret.ProductID,
		Delta:       ret.Quantity,
		ReferenceID: ret.ID,
		Movement:    movement,
		PerformedBy: decidedBy,
		SourceTable: "customer_return",
	})
	return err
}

func (s *returnsService) CreateCustomerReturn(ctx context.Context, p CreateCustomerReturnParams) (*models.CustomerReturn, error) {
	if err := common.ValidatePositiveQuantity(p.Quantity, "return quantity"); err != nil {
		return nil, err
	}
	if p.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", common.ErrValidation)
	}
	if !validReturnType(p.ReturnType) {
		return nil, fmt.Errorf("%w: return type must be %s or %s", common.ErrValidation, models.ReturnTypeRefund, models.ReturnTypeReplace)
	}

	ret := &models.CustomerReturn{
		SaleItemID: p.SaleItemID,
		Quantity:   p.Quantity,
		Reason:     p.Reason,
		ReturnType: p.ReturnType,
		Status:     models.ReturnPending,
		CreatedBy:  p.CreatedBy,
	}
	autoApplied := false

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		item, err := s.saleRepo.GetItem(ctx, p.SaleItemID)
		if err != nil {
			return err
		}
		sale, err := s.saleRepo.GetByID(ctx, item.SaleID)
		if err != nil {
			return err
		}
		ret.ProductID = item.ProductID

		claimed, err := s.customerReturnRepo.SumActiveForSaleItem(ctx, tx, p.SaleItemID)
		if err != nil {
			return err
		}
		if claimed+p.Quantity > item.Quantity {
			return fmt.Errorf("%w: %d of %d units already claimed for this line",
				common.ErrValidation, claimed, item.Quantity)
		}

		// Auto-applied returns land on COMPLETED, not APPROVED, so the audit
		// trail distinguishes them from returns a second person signed off.
		if common.ElevatedRole(p.Role) && time.Since(sale.CreatedAt) <= autoApplyWindow {
			now := time.Now()
			ret.Status = models.ReturnCompleted
			ret.ApprovedBy = &p.CreatedBy
			ret.ApprovedAt = &now
			autoApplied = true
		}
		if err := s.customerReturnRepo.Create(ctx, tx, ret); err != nil {
			return err
		}
		if autoApplied {
			return s.applyCustomerReturn(ctx, tx, ret, p.CreatedBy)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if autoApplied {
		s.ledger.InvalidateStock(ctx, ret.ProductID)
	}
	s.auditService.RecordAudit(ctx, "customer_return", ret.ID.String(), "create",
		nil, models.JSONB{"status": ret.Status, "quantity": ret.Quantity}, p.CreatedBy)
	return ret, nil
}

func (s *returnsService) DecideCustomerReturn(ctx context.Context, p DecideReturnParams) (*models.CustomerReturn, error) {
	if !common.ElevatedRole(p.Role) {
		return nil, fmt.Errorf("%w: deciding returns requires manager or admin role", common.ErrValidation)
	}

	var decided *models.CustomerReturn
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		ret, err := s.customerReturnRepo.GetForUpdate(ctx, tx, p.ReturnID)
		if err != nil {
			return err
		}
		if ret.Status != models.ReturnPending {
			return fmt.Errorf("%w: return already decided as %s", common.ErrConflict, ret.Status)
		}

		status := models.ReturnRejected
		if p.Approve {
			status = models.ReturnApproved
			if err := s.applyCustomerReturn(ctx, tx, ret, p.DecidedBy); err != nil {
				return err
			}
		}

		now := time.Now()
		ok, err := s.customerReturnRepo.MarkDecided(ctx, tx, ret.ID, status, p.DecidedBy, now, p.Comments)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: return already decided", common.ErrConflict)
		}
		ret.Status = status
		ret.ApprovedBy = &p.DecidedBy
		ret.ApprovedAt = &now
		ret.Comments = p.Comments
		decided = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.Approve {
		s.ledger.InvalidateStock(ctx, decided.ProductID)
	}
	s.auditService.RecordAudit(ctx, "customer_return", decided.ID.String(), "decide",
		models.JSONB{"status": models.ReturnPending},
		models.JSONB{"status": decided.Status}, p.DecidedBy)
	return decided, nil
}

func (s *returnsService) GetCustomerReturn(ctx context.Context, id uuid.UUID) (*models.CustomerReturn, error) {
	return s.customerReturnRepo.GetByID(ctx, id)
}

func (s *returnsService) CreateSupplierReturn(ctx context.Context, p CreateSupplierReturnParams) (*models.SupplierReturn, error) {
	if err := common.ValidatePositiveQuantity(p.Quantity, "return quantity"); err != nil {
		return nil, err
	}
	if p.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", common.ErrValidation)
	}
	if !validReturnType(p.ReturnType) {
		return nil, fmt.Errorf("%w: return type must be %s or %s", common.ErrValidation, models.ReturnTypeRefund, models.ReturnTypeReplace)
	}

	ret := &models.SupplierReturn{
		StockInID:  p.StockInID,
		Quantity:   p.Quantity,
		Reason:     p.Reason,
		ReturnType: p.ReturnType,
		Status:     models.ReturnPending,
		CreatedBy:  p.CreatedBy,
	}

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		rec, err := s.stockInRepo.GetByID(ctx, p.StockInID)
		if err != nil {
			return err
		}
		if !rec.Terminal() {
			return fmt.Errorf("%w: stock-in line has not been received yet", common.ErrValidation)
		}
		ret.ProductID = rec.ProductID

		claimed, err := s.supplierReturnRepo.SumActiveForStockIn(ctx, tx, p.StockInID)
		if err != nil {
			return err
		}
		if claimed+p.Quantity > rec.QuantityReceived {
			return fmt.Errorf("%w: %d of %d received units already claimed for this line",
				common.ErrValidation, claimed, rec.QuantityReceived)
		}
		return s.supplierReturnRepo.Create(ctx, tx, ret)
	})
	if err != nil {
		return nil, err
	}

	s.auditService.RecordAudit(ctx, "supplier_return", ret.ID.String(), "create",
		nil, models.JSONB{"status": ret.Status, "quantity": ret.Quantity}, p.CreatedBy)
	return ret, nil
}

func (s *returnsService) DecideSupplierReturn(ctx context.Context, p DecideReturnParams) (*models.SupplierReturn, error) {
	if !common.ElevatedRole(p.Role) {
		return nil, fmt.Errorf("%w: deciding returns requires manager or admin role", common.ErrValidation)
	}

	var decided *models.SupplierReturn
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		ret, err := s.supplierReturnRepo.GetForUpdate(ctx, tx, p.ReturnID)
		if err != nil {
			return err
		}
		if ret.Status != models.ReturnPending {
			return fmt.Errorf("%w: return already decided as %s", common.ErrConflict, ret.Status)
		}

		status := models.ReturnRejected
		if p.Approve {
			status = models.ReturnApproved
			// Sellable goods ship out of the warehouse and must still be on
			// hand. Damaged or expired goods are written off where they sit.
			movement := models.MovementTransferOut
			delta := -ret.Quantity
			if models.IsWriteOffReason(ret.Reason) {
				movement = models.MovementDamage
				delta = ret.Quantity
			}
			if _, err := s.ledger.Adjust(ctx, tx, AdjustParams{
				ProductID:   ret.ProductID,
				Delta:       delta,
				ReferenceID: ret.ID,
				Movement:    movement,
				PerformedBy: p.DecidedBy,
				SourceTable: "supplier_return",
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		ok, err := s.supplierReturnRepo.MarkDecided(ctx, tx, ret.ID, status, p.DecidedBy, now, p.Comments)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: return already decided", common.ErrConflict)
		}
		ret.Status = status
		ret.ApprovedBy = &p.DecidedBy
		ret.ApprovedAt = &now
		ret.Comments = p.Comments
		decided = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.Approve {
		s.ledger.InvalidateStock(ctx, decided.ProductID)
	}
	s.auditService.RecordAudit(ctx, "supplier_return", decided.ID.String(), "decide",
		models.JSONB{"status": models.ReturnPending},
		models.JSONB{"status": decided.Status}, p.DecidedBy)
	return decided, nil
}

func (s *returnsService) GetSupplierReturn(ctx context.Context, id uuid.UUID) (*models.SupplierReturn, error) {
	return s.supplierReturnRepo.GetByID(ctx, id)
}

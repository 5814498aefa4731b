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

// RequestAdjustmentParams captures a proposed warehouse quantity correction.
// Both quantities are absolute snapshots, never a delta: the client states the
// quantity it saw and the quantity it wants. AutoApply skips the pending queue
// and is honored only for elevated roles.
type RequestAdjustmentParams struct {
	ProductID   uuid.UUID
	OldQuantity int
	NewQuantity int
	Reason      string
	AutoApply   bool
	RequestedBy uuid.UUID
	Role        string
}

// ResolveAdjustmentParams carries an approver's decision on a pending request.
type ResolveAdjustmentParams struct {
	RequestID  uuid.UUID
	Approve    bool
	Notes      *string
	ResolvedBy uuid.UUID
	Role       string
}

// AdjustmentService runs the manual-adjustment approval workflow. Requests
// carry the warehouse quantity the client saw; both request and approval check
// that snapshot against the live quantity under lock so a request raised
// against stale data cannot clobber newer movements.
type AdjustmentService interface {
	RequestAdjustment(ctx context.Context, p RequestAdjustmentParams) (*models.ManualAdjustmentRequest, error)
	ResolveAdjustment(ctx context.Context, p ResolveAdjustmentParams) (*models.ManualAdjustmentRequest, error)
	GetAdjustment(ctx context.Context, id uuid.UUID) (*models.ManualAdjustmentRequest, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.ManualAdjustmentRequest, error)
}

type adjustmentService struct {
	db             repositories.Pool
	adjustmentRepo repositories.AdjustmentRepository
	productRepo    repositories.ProductRepository
	inventoryRepo  repositories.InventoryRepository
	ledger         StockLedger
	auditService   AuditService
}

func NewAdjustmentService(db repositories.Pool, adjustmentRepo repositories.AdjustmentRepository,
	productRepo repositories.ProductRepository, inventoryRepo repositories.InventoryRepository,
	ledger StockLedger, auditService AuditService) AdjustmentService {
	return &adjustmentService{
		db:             db,
		adjustmentRepo: adjustmentRepo,
		productRepo:    productRepo,
		inventoryRepo:  inventoryRepo,
		ledger:         ledger,
		auditService:   auditService,
	}
}

func (s *adjustmentService) RequestAdjustment(ctx context.Context, p RequestAdjustmentParams) (*models.ManualAdjustmentRequest, error) {
	if p.OldQuantity < 0 || p.NewQuantity < 0 {
		return nil, fmt.Errorf("%w: quantities cannot be negative", common.ErrValidation)
	}
	if p.NewQuantity > 1000000 {
		return nil, fmt.Errorf("%w: new quantity cannot exceed 1,000,000 units", common.ErrValidation)
	}
	if p.Reason == "" {
		return nil, fmt.Errorf("%w: reason is required", common.ErrValidation)
	}
	if p.OldQuantity == p.NewQuantity {
		return nil, fmt.Errorf("%w: requested quantity equals the submitted snapshot", common.ErrConflict)
	}
	if p.AutoApply && !common.ElevatedRole(p.Role) {
		return nil, fmt.Errorf("%w: auto-apply requires manager or admin role", common.ErrValidation)
	}

	req := &models.ManualAdjustmentRequest{
		ProductID:   p.ProductID,
		OldQuantity: p.OldQuantity,
		NewQuantity: p.NewQuantity,
		Reason:      p.Reason,
		RequestedBy: p.RequestedBy,
		Status:      models.AdjustmentPending,
	}

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := s.productRepo.GetForUpdate(ctx, tx, p.ProductID); err != nil {
			return err
		}
		inv, err := s.inventoryRepo.GetForUpdate(ctx, tx, p.ProductID)
		if err != nil {
			return err
		}
		// The client adjusts against the quantity it saw. If the warehouse
		// moved in the meantime the implied delta is wrong, so the request is
		// rejected rather than silently recomputed.
		if inv.WarehouseQuantity != p.OldQuantity {
			return fmt.Errorf("%w: warehouse quantity is %d, snapshot says %d",
				common.ErrConflict, inv.WarehouseQuantity, p.OldQuantity)
		}

		if p.AutoApply {
			now := time.Now()
			req.Status = models.AdjustmentAutoApplied
			req.ApprovedBy = &p.RequestedBy
			req.ApprovedAt = &now
		}
		if err := s.adjustmentRepo.Create(ctx, tx, req); err != nil {
			return err
		}
		if p.AutoApply {
			_, err = s.ledger.Adjust(ctx, tx, AdjustParams{
				ProductID:   p.ProductID,
				Delta:       req.Delta(),
				ReferenceID: req.ID,
				Movement:    req.MovementType(),
				PerformedBy: p.RequestedBy,
				SourceTable: "manual_adjustments",
			})
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.AutoApply {
		s.ledger.InvalidateStock(ctx, p.ProductID)
	}
	s.auditService.RecordAudit(ctx, "manual_adjustments", req.ID.String(), "request",
		nil, models.JSONB{"status": req.Status, "old_quantity": req.OldQuantity, "new_quantity": req.NewQuantity},
		p.RequestedBy)
	return req, nil
}

func (s *adjustmentService) ResolveAdjustment(ctx context.Context, p ResolveAdjustmentParams) (*models.ManualAdjustmentRequest, error) {
	if !common.ElevatedRole(p.Role) {
		return nil, fmt.Errorf("%w: resolving adjustments requires manager or admin role", common.ErrValidation)
	}

	var resolved *models.ManualAdjustmentRequest
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		req, err := s.adjustmentRepo.GetForUpdate(ctx, tx, p.RequestID)
		if err != nil {
			return err
		}
		if req.Status != models.AdjustmentPending {
			return fmt.Errorf("%w: request already resolved as %s", common.ErrConflict, req.Status)
		}

		status := models.AdjustmentRejected
		if p.Approve {
			status = models.AdjustmentApproved
			if _, err := s.productRepo.GetForUpdate(ctx, tx, req.ProductID); err != nil {
				return err
			}
			inv, err := s.inventoryRepo.GetForUpdate(ctx, tx, req.ProductID)
			if err != nil {
				return err
			}
			// The request recorded the quantity it was raised against. If the
			// warehouse moved since, applying the old delta would be wrong.
			if inv.WarehouseQuantity != req.OldQuantity {
				return fmt.Errorf("%w: warehouse quantity changed since request (was %d, now %d)",
					common.ErrConflict, req.OldQuantity, inv.WarehouseQuantity)
			}
			if _, err := s.ledger.Adjust(ctx, tx, AdjustParams{
				ProductID:   req.ProductID,
				Delta:       req.Delta(),
				ReferenceID: req.ID,
				Movement:    req.MovementType(),
				PerformedBy: p.ResolvedBy,
				SourceTable: "manual_adjustments",
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		ok, err := s.adjustmentRepo.MarkResolved(ctx, tx, req.ID, status, p.ResolvedBy, now, p.Notes)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: request already resolved", common.ErrConflict)
		}
		req.Status = status
		req.ApprovedBy = &p.ResolvedBy
		req.ApprovedAt = &now
		req.Notes = p.Notes
		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.Approve {
		s.ledger.InvalidateStock(ctx, resolved.ProductID)
	}
	s.auditService.RecordAudit(ctx, "manual_adjustments", resolved.ID.String(), "resolve",
		models.JSONB{"status": models.AdjustmentPending},
		models.JSONB{"status": resolved.Status},
		p.ResolvedBy)
	return resolved, nil
}

func (s *adjustmentService) GetAdjustment(ctx context.Context, id uuid.UUID) (*models.ManualAdjustmentRequest, error) {
	return s.adjustmentRepo.GetByID(ctx, id)
}

func (s *adjustmentService) ListPending(ctx context.Context, limit, offset int) ([]*models.ManualAdjustmentRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.adjustmentRepo.ListPending(ctx, limit, offset)
}

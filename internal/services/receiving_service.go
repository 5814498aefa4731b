package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"retailstock/internal/common"
	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ReceiveLineInput is one delivered purchase-order line as counted at the dock.
type ReceiveLineInput struct {
	ProductID        uuid.UUID       `json:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Batch            *string         `json:"batch"`
	Expiry           *time.Time      `json:"expiry"`
}

// ReceiveParams records one delivery against a purchase order. CloseOrder
// marks the order completed after this delivery, for short-shipped orders the
// buyer will not chase.
type ReceiveParams struct {
	PurchaseOrderID uuid.UUID
	Lines           []ReceiveLineInput
	CloseOrder      bool
	ReceivedBy      uuid.UUID
}

// ReceiveResult reports the stock-in records written and the warehouse totals
// after the delivery.
type ReceiveResult struct {
	Records        []*models.StockInRecord `json:"records"`
	OrderStatus    string                  `json:"order_status"`
	RemainingStock map[uuid.UUID]int       `json:"remaining_stock"`
}

type ReceivingService interface {
	ReceivePurchaseOrder(ctx context.Context, p ReceiveParams) (*ReceiveResult, error)
	GetStockIn(ctx context.Context, id uuid.UUID) (*models.StockInRecord, error)
}

type receivingService struct {
	db           repositories.Pool
	stockInRepo  repositories.StockInRepository
	ledger       StockLedger
	auditService AuditService
}

func NewReceivingService(db repositories.Pool, stockInRepo repositories.StockInRepository,
	ledger StockLedger, auditService AuditService) ReceivingService {
	return &receivingService{
		db:           db,
		stockInRepo:  stockInRepo,
		ledger:       ledger,
		auditService: auditService,
	}
}

// lineStatus classifies a received count against its ordered count.
func lineStatus(ordered, received int) string {
	switch {
	case received == 0:
		return models.StockInRejected
	case received < ordered:
		return models.StockInPartial
	default:
		return models.StockInReceived
	}
}

func (s *receivingService) ReceivePurchaseOrder(ctx context.Context, p ReceiveParams) (*ReceiveResult, error) {
	if len(p.Lines) == 0 {
		return nil, fmt.Errorf("%w: delivery requires at least one line", common.ErrValidation)
	}
	for i, line := range p.Lines {
		if err := common.ValidatePositiveQuantity(line.QuantityOrdered, fmt.Sprintf("line %d quantity ordered", i)); err != nil {
			return nil, err
		}
		if line.QuantityReceived < 0 {
			return nil, fmt.Errorf("%w: line %d quantity received cannot be negative", common.ErrValidation, i)
		}
		if line.QuantityReceived > line.QuantityOrdered {
			return nil, fmt.Errorf("%w: line %d received %d exceeds ordered %d",
				common.ErrValidation, i, line.QuantityReceived, line.QuantityOrdered)
		}
		if line.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: line %d unit cost cannot be negative", common.ErrValidation, i)
		}
	}

	lines := make([]ReceiveLineInput, len(p.Lines))
	copy(lines, p.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].ProductID[:], lines[j].ProductID[:]) < 0
	})

	result := &ReceiveResult{
		Records:        make([]*models.StockInRecord, 0, len(lines)),
		RemainingStock: make(map[uuid.UUID]int, len(lines)),
	}

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		// The order header lock serializes deliveries for the same order.
		orderStatus, err := s.stockInRepo.GetPurchaseOrderForUpdate(ctx, tx, p.PurchaseOrderID)
		if err != nil {
			return err
		}
		if orderStatus == models.PurchaseOrderCompleted {
			return fmt.Errorf("%w: purchase order already completed", common.ErrConflict)
		}

		for _, line := range lines {
			rec := &models.StockInRecord{
				PurchaseOrderID:  p.PurchaseOrderID,
				ProductID:        line.ProductID,
				QuantityOrdered:  line.QuantityOrdered,
				QuantityReceived: line.QuantityReceived,
				UnitCost:         line.UnitCost,
				Batch:            line.Batch,
				Expiry:           line.Expiry,
				Status:           lineStatus(line.QuantityOrdered, line.QuantityReceived),
				ReceivedBy:       p.ReceivedBy,
			}
			if err := s.stockInRepo.Insert(ctx, tx, rec); err != nil {
				return err
			}
			if line.QuantityReceived > 0 {
				newTotal, err := s.ledger.Adjust(ctx, tx, AdjustParams{
					ProductID:   line.ProductID,
					Delta:       line.QuantityReceived,
					ReferenceID: rec.ID,
					Movement:    models.MovementPurchaseReceipt,
					PerformedBy: p.ReceivedBy,
					SourceTable: "stockin",
				})
				if err != nil {
					return err
				}
				result.RemainingStock[line.ProductID] = newTotal
			}
			result.Records = append(result.Records, rec)
		}

		result.OrderStatus = orderStatus
		if p.CloseOrder {
			if err := s.stockInRepo.SetPurchaseOrderStatus(ctx, tx, p.PurchaseOrderID, models.PurchaseOrderCompleted); err != nil {
				return err
			}
			result.OrderStatus = models.PurchaseOrderCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(result.RemainingStock))
	for id := range result.RemainingStock {
		productIDs = append(productIDs, id)
	}
	s.ledger.InvalidateStock(ctx, productIDs...)
	s.auditService.RecordAudit(ctx, "purchase_orders", p.PurchaseOrderID.String(), "receive",
		nil, models.JSONB{"lines": len(result.Records), "order_status": result.OrderStatus}, p.ReceivedBy)

	return result, nil
}

func (s *receivingService) GetStockIn(ctx context.Context, id uuid.UUID) (*models.StockInRecord, error) {
	return s.stockInRepo.GetByID(ctx, id)
}

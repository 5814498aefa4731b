package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"retailstock/internal/common"
	"retailstock/internal/models"
	"retailstock/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SaleLineInput is one line of a sale as the terminal submits it.
type SaleLineInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleParams is a complete checkout: all lines commit or none do.
type CreateSaleParams struct {
	Items         []SaleLineInput
	PaymentMethod string
	TerminalID    *string
	UserID        uuid.UUID
}

// SaleResult is the committed sale with its lines and the stock totals left
// behind per product.
type SaleResult struct {
	Sale           *models.Sale       `json:"sale"`
	Items          []*models.SaleItem `json:"items"`
	RemainingStock map[uuid.UUID]int  `json:"remaining_stock"`
}

type SaleService interface {
	CreateSale(ctx context.Context, p CreateSaleParams) (*SaleResult, error)
	GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, []*models.SaleItem, error)
}

type saleService struct {
	db           repositories.Pool
	saleRepo     repositories.SaleRepository
	productRepo  repositories.ProductRepository
	ledger       StockLedger
	auditService AuditService
}

func NewSaleService(db repositories.Pool, saleRepo repositories.SaleRepository,
	productRepo repositories.ProductRepository, ledger StockLedger, auditService AuditService) SaleService {
	return &saleService{
		db:           db,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		ledger:       ledger,
		auditService: auditService,
	}
}

func (s *saleService) CreateSale(ctx context.Context, p CreateSaleParams) (*SaleResult, error) {
	if len(p.Items) == 0 {
		return nil, fmt.Errorf("%w: sale requires at least one item", common.ErrValidation)
	}
	if p.PaymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", common.ErrValidation)
	}
	total := decimal.Zero
	for i, item := range p.Items {
		if err := common.ValidatePositiveQuantity(item.Quantity, fmt.Sprintf("item %d quantity", i)); err != nil {
			return nil, err
		}
		if item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: item %d unit price cannot be negative", common.ErrValidation, i)
		}
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	// Lines are processed in ascending product-id order so concurrent
	// multi-line sales take their row locks in the same order and cannot
	// deadlock each other.
	lines := make([]SaleLineInput, len(p.Items))
	copy(lines, p.Items)
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].ProductID[:], lines[j].ProductID[:]) < 0
	})

	sale := &models.Sale{
		UserID:        p.UserID,
		TerminalID:    p.TerminalID,
		Total:         total,
		PaymentMethod: p.PaymentMethod,
	}
	items := make([]*models.SaleItem, 0, len(lines))
	remaining := make(map[uuid.UUID]int, len(lines))

	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		// Sales are picked from the display shelf only. Every line must be
		// covered by display stock, under lock, before anything is written;
		// warehouse stock does not count.
		needed := make(map[uuid.UUID]int, len(lines))
		for _, line := range lines {
			needed[line.ProductID] += line.Quantity
		}
		checked := make(map[uuid.UUID]bool, len(lines))
		for _, line := range lines {
			if checked[line.ProductID] {
				continue
			}
			checked[line.ProductID] = true
			product, err := s.productRepo.GetForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			if product.DisplayQuantity < needed[line.ProductID] {
				return fmt.Errorf("%w: display has %d, sale needs %d",
					common.ErrInsufficientStock, product.DisplayQuantity, needed[line.ProductID])
			}
		}

		if err := s.saleRepo.InsertSale(ctx, tx, sale); err != nil {
			return err
		}
		for _, line := range lines {
			item := &models.SaleItem{
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
			}
			if err := s.saleRepo.InsertItem(ctx, tx, item); err != nil {
				return err
			}
			newTotal, err := s.ledger.Adjust(ctx, tx, AdjustParams{
				ProductID:   line.ProductID,
				Delta:       -line.Quantity,
				ReferenceID: sale.ID,
				Movement:    models.MovementSale,
				PerformedBy: p.UserID,
				SourceTable: "sale",
				TerminalID:  p.TerminalID,
			})
			if err != nil {
				return err
			}
			items = append(items, item)
			remaining[line.ProductID] = newTotal
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(remaining))
	for id := range remaining {
		productIDs = append(productIDs, id)
	}
	s.ledger.InvalidateStock(ctx, productIDs...)
	s.auditService.RecordAudit(ctx, "sale", sale.ID.String(), "create",
		nil, models.JSONB{"total": sale.Total.String(), "items": len(items)}, p.UserID)

	return &SaleResult{Sale: sale, Items: items, RemainingStock: remaining}, nil
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*models.Sale, []*models.SaleItem, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.saleRepo.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sale, items, nil
}

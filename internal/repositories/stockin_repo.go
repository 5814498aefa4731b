package repositories

import (
	"context"
	"errors"
	"fmt"

	"retailstock/internal/common"
	"retailstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StockInRepository interface {
	Insert(ctx context.Context, q Database, rec *models.StockInRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockInRecord, error)
	ListByPurchaseOrder(ctx context.Context, q Database, purchaseOrderID uuid.UUID) ([]*models.StockInRecord, error)
	// GetPurchaseOrderForUpdate locks the order header so two receipts for the
	// same order serialize on the status advance.
	GetPurchaseOrderForUpdate(ctx context.Context, q Database, purchaseOrderID uuid.UUID) (string, error)
	SetPurchaseOrderStatus(ctx context.Context, q Database, purchaseOrderID uuid.UUID, status string) error
}

type stockInRepo struct {
	db Database
}

func NewStockInRepo(db Database) StockInRepository {
	return &stockInRepo{db: db}
}

const stockInColumns = `id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost, batch, expiry, status, received_by, created_at`

func (r *stockInRepo) Insert(ctx context.Context, q Database, rec *models.StockInRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	query := `
		INSERT INTO stockin (id, purchase_order_id, product_id, quantity_ordered, quantity_received, unit_cost, batch, expiry, status, received_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	_, err := q.Exec(ctx, query,
		rec.ID, rec.PurchaseOrderID, rec.ProductID, rec.QuantityOrdered, rec.QuantityReceived,
		rec.UnitCost, rec.Batch, rec.Expiry, rec.Status, rec.ReceivedBy)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *stockInRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockInRecord, error) {
	rec := &models.StockInRecord{}
	query := `
		SELECT ` + stockInColumns + `
		FROM stockin
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.PurchaseOrderID, &rec.ProductID,
		&rec.QuantityOrdered, &rec.QuantityReceived, &rec.UnitCost, &rec.Batch, &rec.Expiry,
		&rec.Status, &rec.ReceivedBy, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: stock-in record", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return rec, nil
}

func (r *stockInRepo) ListByPurchaseOrder(ctx context.Context, q Database, purchaseOrderID uuid.UUID) ([]*models.StockInRecord, error) {
	query := `
		SELECT ` + stockInColumns + `
		FROM stockin
		WHERE purchase_order_id = $1
		ORDER BY created_at ASC
	`
	rows, err := q.Query(ctx, query, purchaseOrderID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var recs []*models.StockInRecord
	for rows.Next() {
		rec := &models.StockInRecord{}
		if err := rows.Scan(&rec.ID, &rec.PurchaseOrderID, &rec.ProductID,
			&rec.QuantityOrdered, &rec.QuantityReceived, &rec.UnitCost, &rec.Batch, &rec.Expiry,
			&rec.Status, &rec.ReceivedBy, &rec.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *stockInRepo) GetPurchaseOrderForUpdate(ctx context.Context, q Database, purchaseOrderID uuid.UUID) (string, error) {
	var status string
	query := `
		SELECT status
		FROM purchase_orders
		WHERE id = $1
		FOR UPDATE
	`
	err := q.QueryRow(ctx, query, purchaseOrderID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: purchase order", common.ErrNotFound)
		}
		return "", MapError(err)
	}
	return status, nil
}

func (r *stockInRepo) SetPurchaseOrderStatus(ctx context.Context, q Database, purchaseOrderID uuid.UUID, status string) error {
	query := `
		UPDATE purchase_orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := q.Exec(ctx, query, status, purchaseOrderID); err != nil {
		return MapError(err)
	}
	return nil
}

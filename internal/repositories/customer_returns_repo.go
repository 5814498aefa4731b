package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retailstock/internal/common"
	"retailstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerReturnRepository interface {
	Create(ctx context.Context, q Database, ret *models.CustomerReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerReturn, error)
	GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.CustomerReturn, error)
	// MarkDecided flips a PENDING return to a terminal status; the PENDING
	// guard keeps decisions at-most-once.
	MarkDecided(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error)
	// SumActiveForSaleItem totals quantities already claimed against a sale
	// line by returns that are pending or went through.
	SumActiveForSaleItem(ctx context.Context, q Database, saleItemID uuid.UUID) (int, error)
}

type customerReturnRepo struct {
	db Database
}

func NewCustomerReturnRepo(db Database) CustomerReturnRepository {
	return &customerReturnRepo{db: db}
}

const customerReturnColumns = `id, sale_item_id, product_id, quantity, reason, return_type, status, created_by, approved_by, approved_at, comments, created_at`

func scanCustomerReturn(row pgx.Row) (*models.CustomerReturn, error) {
	ret := &models.CustomerReturn{}
	err := row.Scan(&ret.ID, &ret.SaleItemID, &ret.ProductID, &ret.Quantity, &ret.Reason, &ret.ReturnType,
		&ret.Status, &ret.CreatedBy, &ret.ApprovedBy, &ret.ApprovedAt, &ret.Comments, &ret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: customer return", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return ret, nil
}

func (r *customerReturnRepo) Create(ctx context.Context, q Database, ret *models.CustomerReturn) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	query := `
		INSERT INTO customer_return (id, sale_item_id, product_id, quantity, reason, return_type, status, created_by, approved_by, approved_at, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := q.Exec(ctx, query,
		ret.ID, ret.SaleItemID, ret.ProductID, ret.Quantity, ret.Reason, ret.ReturnType,
		ret.Status, ret.CreatedBy, ret.ApprovedBy, ret.ApprovedAt, ret.Comments)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *customerReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerReturn, error) {
	query := `
		SELECT ` + customerReturnColumns + `
		FROM customer_return
		WHERE id = $1
	`
	return scanCustomerReturn(r.db.QueryRow(ctx, query, id))
}

func (r *customerReturnRepo) GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.CustomerReturn, error) {
	query := `
		SELECT ` + customerReturnColumns + `
		FROM customer_return
		WHERE id = $1
		FOR UPDATE
	`
	return scanCustomerReturn(q.QueryRow(ctx, query, id))
}

func (r *customerReturnRepo) MarkDecided(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error) {
	query := `
		UPDATE customer_return
		SET status = $1, approved_by = $2, approved_at = $3, comments = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query, status, approvedBy, approvedAt, comments, id, models.ReturnPending)
	if err != nil {
		return false, MapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *customerReturnRepo) SumActiveForSaleItem(ctx context.Context, q Database, saleItemID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM customer_return
		WHERE sale_item_id = $1 AND status != $2
	`
	var total int
	if err := q.QueryRow(ctx, query, saleItemID, models.ReturnRejected).Scan(&total); err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

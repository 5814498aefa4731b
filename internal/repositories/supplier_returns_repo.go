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

type SupplierReturnRepository interface {
	Create(ctx context.Context, q Database, ret *models.SupplierReturn) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupplierReturn, error)
	GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.SupplierReturn, error)
	MarkDecided(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error)
	SumActiveForStockIn(ctx context.Context, q Database, stockInID uuid.UUID) (int, error)
}

type supplierReturnRepo struct {
	db Database
}

func NewSupplierReturnRepo(db Database) SupplierReturnRepository {
	return &supplierReturnRepo{db: db}
}

const supplierReturnColumns = `id, stock_in_id, product_id, quantity, reason, return_type, status, created_by, approved_by, approved_at, comments, created_at`

func scanSupplierReturn(row pgx.Row) (*models.SupplierReturn, error) {
	ret := &models.SupplierReturn{}
	err := row.Scan(&ret.ID, &ret.StockInID, &ret.ProductID, &ret.Quantity, &ret.Reason, &ret.ReturnType,
		&ret.Status, &ret.CreatedBy, &ret.ApprovedBy, &ret.ApprovedAt, &ret.Comments, &ret.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: supplier return", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return ret, nil
}

func (r *supplierReturnRepo) Create(ctx context.Context, q Database, ret *models.SupplierReturn) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	query := `
		INSERT INTO supplier_return (id, stock_in_id, product_id, quantity, reason, return_type, status, created_by, approved_by, approved_at, comments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
	`
	_, err := q.Exec(ctx, query,
		ret.ID, ret.StockInID, ret.ProductID, ret.Quantity, ret.Reason, ret.ReturnType,
		ret.Status, ret.CreatedBy, ret.ApprovedBy, ret.ApprovedAt, ret.Comments)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *supplierReturnRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SupplierReturn, error) {
	query := `
		SELECT ` + supplierReturnColumns + `
		FROM supplier_return
		WHERE id = $1
	`
	return scanSupplierReturn(r.db.QueryRow(ctx, query, id))
}

func (r *supplierReturnRepo) GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.SupplierReturn, error) {
	query := `
		SELECT ` + supplierReturnColumns + `
		FROM supplier_return
		WHERE id = $1
		FOR UPDATE
	`
	return scanSupplierReturn(q.QueryRow(ctx, query, id))
}

func (r *supplierReturnRepo) MarkDecided(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, comments *string) (bool, error) {
	query := `
		UPDATE supplier_return
		SET status = $1, approved_by = $2, approved_at = $3, comments = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query, status, approvedBy, approvedAt, comments, id, models.ReturnPending)
	if err != nil {
		return false, MapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *supplierReturnRepo) SumActiveForStockIn(ctx context.Context, q Database, stockInID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM supplier_return
		WHERE stock_in_id = $1 AND status != $2
	`
	var total int
	if err := q.QueryRow(ctx, query, stockInID, models.ReturnRejected).Scan(&total); err != nil {
		return 0, MapError(err)
	}
	return total, nil
}

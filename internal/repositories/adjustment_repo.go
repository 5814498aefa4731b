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

type AdjustmentRepository interface {
	Create(ctx context.Context, q Database, req *models.ManualAdjustmentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ManualAdjustmentRequest, error)
	GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.ManualAdjustmentRequest, error)
	// MarkResolved flips a PENDING request to a terminal status. The PENDING
	// guard in the WHERE clause is what makes resolution at-most-once; callers
	// must treat resolved=false as a conflict.
	MarkResolved(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, notes *string) (bool, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.ManualAdjustmentRequest, error)
}

type adjustmentRepo struct {
	db Database
}

func NewAdjustmentRepo(db Database) AdjustmentRepository {
	return &adjustmentRepo{db: db}
}

const adjustmentColumns = `id, product_id, old_quantity, new_quantity, reason, requested_by, status, approved_by, approved_at, notes, created_at`

func scanAdjustment(row pgx.Row) (*models.ManualAdjustmentRequest, error) {
	req := &models.ManualAdjustmentRequest{}
	err := row.Scan(&req.ID, &req.ProductID, &req.OldQuantity, &req.NewQuantity, &req.Reason,
		&req.RequestedBy, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.Notes, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: adjustment request", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return req, nil
}

func (r *adjustmentRepo) Create(ctx context.Context, q Database, req *models.ManualAdjustmentRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	query := `
		INSERT INTO manual_adjustments (id, product_id, old_quantity, new_quantity, reason, requested_by, status, approved_by, approved_at, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	_, err := q.Exec(ctx, query,
		req.ID, req.ProductID, req.OldQuantity, req.NewQuantity, req.Reason,
		req.RequestedBy, req.Status, req.ApprovedBy, req.ApprovedAt, req.Notes)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *adjustmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ManualAdjustmentRequest, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM manual_adjustments
		WHERE id = $1
	`
	return scanAdjustment(r.db.QueryRow(ctx, query, id))
}

func (r *adjustmentRepo) GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.ManualAdjustmentRequest, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM manual_adjustments
		WHERE id = $1
		FOR UPDATE
	`
	return scanAdjustment(q.QueryRow(ctx, query, id))
}

func (r *adjustmentRepo) MarkResolved(ctx context.Context, q Database, id uuid.UUID, status string, approvedBy uuid.UUID, approvedAt time.Time, notes *string) (bool, error) {
	query := `
		UPDATE manual_adjustments
		SET status = $1, approved_by = $2, approved_at = $3, notes = $4
		WHERE id = $5 AND status = $6
	`
	tag, err := q.Exec(ctx, query, status, approvedBy, approvedAt, notes, id, models.AdjustmentPending)
	if err != nil {
		return false, MapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *adjustmentRepo) ListPending(ctx context.Context, limit, offset int) ([]*models.ManualAdjustmentRequest, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM manual_adjustments
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, models.AdjustmentPending, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var reqs []*models.ManualAdjustmentRequest
	for rows.Next() {
		req := &models.ManualAdjustmentRequest{}
		if err := rows.Scan(&req.ID, &req.ProductID, &req.OldQuantity, &req.NewQuantity, &req.Reason,
			&req.RequestedBy, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.Notes, &req.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

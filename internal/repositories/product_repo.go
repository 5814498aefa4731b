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

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetForUpdate locks the product row for the read-modify-write section.
	GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.Product, error)
	SetDisplayQuantity(ctx context.Context, q Database, id uuid.UUID, quantity int) error
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, display_stocks, discontinued, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Name, &p.DisplayQuantity, &p.Discontinued, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: product", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return p, nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) GetForUpdate(ctx context.Context, q Database, id uuid.UUID) (*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
		FOR UPDATE
	`
	return scanProduct(q.QueryRow(ctx, query, id))
}

func (r *productRepo) SetDisplayQuantity(ctx context.Context, q Database, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET display_stocks = $1, updated_at = NOW()
		WHERE id = $2
	`
	tag, err := q.Exec(ctx, query, quantity, id)
	if err != nil {
		return MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", common.ErrNotFound)
	}
	return nil
}

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

type SaleRepository interface {
	InsertSale(ctx context.Context, q Database, sale *models.Sale) error
	InsertItem(ctx context.Context, q Database, item *models.SaleItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error)
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) InsertSale(ctx context.Context, q Database, sale *models.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	query := `
		INSERT INTO sale (id, user_id, terminal_id, total, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := q.Exec(ctx, query, sale.ID, sale.UserID, sale.TerminalID, sale.Total, sale.PaymentMethod)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *saleRepo) InsertItem(ctx context.Context, q Database, item *models.SaleItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.Exec(ctx, query, item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice)
	if err != nil {
		return MapError(err)
	}
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `
		SELECT id, user_id, terminal_id, total, payment_method, created_at
		FROM sale
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&sale.ID, &sale.UserID, &sale.TerminalID, &sale.Total, &sale.PaymentMethod, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return sale, nil
}

func (r *saleRepo) GetItem(ctx context.Context, id uuid.UUID) (*models.SaleItem, error) {
	item := &models.SaleItem{}
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: sale item", common.ErrNotFound)
		}
		return nil, MapError(err)
	}
	return item, nil
}

func (r *saleRepo) ListItems(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price
		FROM sale_items
		WHERE sale_id = $1
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var items []*models.SaleItem
	for rows.Next() {
		item := &models.SaleItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, MapError(err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

package repositories

import (
	"context"
	"errors"

	"retailstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryRepository interface {
	GetByProduct(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error)
	// GetForUpdate locks the inventory row, creating it lazily at zero when the
	// product was onboarded without one.
	GetForUpdate(ctx context.Context, q Database, productID uuid.UUID) (*models.InventoryRecord, error)
	SetQuantity(ctx context.Context, q Database, productID uuid.UUID, quantity int) error
	ListBelowReorder(ctx context.Context, limit int) ([]*models.StockLevel, error)
}

type inventoryRepo struct {
	db Database
}

func NewInventoryRepo(db Database) InventoryRepository {
	return &inventoryRepo{db: db}
}

const inventoryColumns = `product_id, warehouse_quantity, reorder_level, last_update`

func scanInventory(row pgx.Row) (*models.InventoryRecord, error) {
	rec := &models.InventoryRecord{}
	err := row.Scan(&rec.ProductID, &rec.WarehouseQuantity, &rec.ReorderLevel, &rec.LastUpdate)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *inventoryRepo) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE product_id = $1
	`
	rec, err := scanInventory(r.db.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, MapError(err)
	}
	return rec, nil
}

func (r *inventoryRepo) GetForUpdate(ctx context.Context, q Database, productID uuid.UUID) (*models.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE product_id = $1
		FOR UPDATE
	`
	rec, err := scanInventory(q.QueryRow(ctx, query, productID))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, MapError(err)
	}

	// Lazy creation: onboarding gaps leave products without an inventory row.
	insert := `
		INSERT INTO inventory (product_id, warehouse_quantity, reorder_level, last_update)
		VALUES ($1, 0, 0, NOW())
		ON CONFLICT (product_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, insert, productID); err != nil {
		return nil, MapError(err)
	}
	rec, err = scanInventory(q.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, MapError(err)
	}
	return rec, nil
}

func (r *inventoryRepo) SetQuantity(ctx context.Context, q Database, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory
		SET warehouse_quantity = $1, last_update = NOW()
		WHERE product_id = $2
	`
	if _, err := q.Exec(ctx, query, quantity, productID); err != nil {
		return MapError(err)
	}
	return nil
}

func (r *inventoryRepo) ListBelowReorder(ctx context.Context, limit int) ([]*models.StockLevel, error) {
	query := `
		SELECT i.product_id, i.warehouse_quantity, p.display_stocks, i.reorder_level, i.last_update
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE NOT p.discontinued
		  AND i.warehouse_quantity + p.display_stocks <= i.reorder_level
		ORDER BY i.last_update DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var levels []*models.StockLevel
	for rows.Next() {
		lvl := &models.StockLevel{}
		if err := rows.Scan(&lvl.ProductID, &lvl.WarehouseQuantity, &lvl.DisplayQuantity, &lvl.ReorderLevel, &lvl.LastUpdate); err != nil {
			return nil, MapError(err)
		}
		levels = append(levels, lvl)
	}
	return levels, rows.Err()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryRecord is the warehouse-side quantity row, one per product. Created
// lazily at zero on a product's first movement when onboarding skipped it.
type InventoryRecord struct {
	ProductID         uuid.UUID `json:"product_id" db:"product_id"`
	WarehouseQuantity int       `json:"warehouse_quantity" db:"warehouse_quantity"`
	ReorderLevel      int       `json:"reorder_level" db:"reorder_level"`
	LastUpdate        time.Time `json:"last_update" db:"last_update"`
}

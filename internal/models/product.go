package models

import (
	"time"

	"github.com/google/uuid"
)

// Product carries the catalog fields the stock ledger needs. Display stock lives
// here; warehouse stock lives on the product's InventoryRecord. The two are
// disjoint partitions of total sellable stock.
type Product struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	DisplayQuantity int       `json:"display_stocks" db:"display_stocks"`
	Discontinued    bool      `json:"discontinued" db:"discontinued"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// StockLevel is the per-location quantity snapshot returned by stock queries.
type StockLevel struct {
	ProductID         uuid.UUID `json:"product_id"`
	WarehouseQuantity int       `json:"warehouse_quantity"`
	DisplayQuantity   int       `json:"display_quantity"`
	ReorderLevel      int       `json:"reorder_level"`
	LastUpdate        time.Time `json:"last_update"`
}

// Total returns sellable stock across both locations.
func (s *StockLevel) Total() int {
	return s.WarehouseQuantity + s.DisplayQuantity
}

// BelowReorderLevel reports whether total stock has dropped to or under the
// reorder threshold.
func (s *StockLevel) BelowReorderLevel() bool {
	return s.Total() <= s.ReorderLevel
}

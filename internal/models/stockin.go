package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock-in line statuses.
const (
	StockInPending   = "PENDING"
	StockInExpected  = "EXPECTED"
	StockInPartial   = "PARTIAL"
	StockInReceived  = "RECEIVED"
	StockInRejected  = "REJECTED"
	StockInCompleted = "COMPLETED"
)

// Purchase order statuses the receiving flow advances.
const (
	PurchaseOrderOpen      = "OPEN"
	PurchaseOrderCompleted = "COMPLETED"
)

// StockInRecord is one received purchase-order line: the event that turns an
// ordered line into warehouse inventory.
type StockInRecord struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	PurchaseOrderID  uuid.UUID       `json:"purchase_order_id" db:"purchase_order_id"`
	ProductID        uuid.UUID       `json:"product_id" db:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered" db:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received" db:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	Batch            *string         `json:"batch" db:"batch"`
	Expiry           *time.Time      `json:"expiry" db:"expiry"`
	Status           string          `json:"status" db:"status"`
	ReceivedBy       uuid.UUID       `json:"received_by" db:"received_by"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Terminal reports whether the line has reached a final status.
func (r *StockInRecord) Terminal() bool {
	return r.Status != StockInPending && r.Status != StockInExpected
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Return statuses. PENDING is the only state a decision can act on.
const (
	ReturnPending    = "PENDING"
	ReturnApproved   = "APPROVED"
	ReturnRejected   = "REJECTED"
	ReturnProcessing = "PROCESSING"
	ReturnCompleted  = "COMPLETED"
)

// Return types.
const (
	ReturnTypeRefund  = "REFUND"
	ReturnTypeReplace = "REPLACE"
)

// CustomerReturn is a customer bringing goods back against a sale line.
type CustomerReturn struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	SaleItemID uuid.UUID  `json:"sale_item_id" db:"sale_item_id"`
	ProductID  uuid.UUID  `json:"product_id" db:"product_id"`
	Quantity   int        `json:"quantity" db:"quantity"`
	Reason     string     `json:"reason" db:"reason"`
	ReturnType string     `json:"return_type" db:"return_type"`
	Status     string     `json:"status" db:"status"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	ApprovedBy *uuid.UUID `json:"approved_by" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at" db:"approved_at"`
	Comments   *string    `json:"comments" db:"comments"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// SupplierReturn sends received goods back to the supplier against a stock-in line.
type SupplierReturn struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	StockInID  uuid.UUID  `json:"stock_in_id" db:"stock_in_id"`
	ProductID  uuid.UUID  `json:"product_id" db:"product_id"`
	Quantity   int        `json:"quantity" db:"quantity"`
	Reason     string     `json:"reason" db:"reason"`
	ReturnType string     `json:"return_type" db:"return_type"`
	Status     string     `json:"status" db:"status"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	ApprovedBy *uuid.UUID `json:"approved_by" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at" db:"approved_at"`
	Comments   *string    `json:"comments" db:"comments"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// IsWriteOffReason reports whether an approved return for this reason is
// written off as damage instead of restocked.
func IsWriteOffReason(reason string) bool {
	r := strings.ToLower(reason)
	return strings.Contains(r, "damag") || strings.Contains(r, "expir")
}

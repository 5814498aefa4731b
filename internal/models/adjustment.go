package models

import (
	"time"

	"github.com/google/uuid"
)

// Manual adjustment request statuses. PENDING is the only non-terminal state.
const (
	AdjustmentPending     = "PENDING"
	AdjustmentApproved    = "APPROVED"
	AdjustmentRejected    = "REJECTED"
	AdjustmentAutoApplied = "AUTO_APPLIED"
)

// ManualAdjustmentRequest is a reviewed correction of a product's warehouse
// quantity. Old and new quantities are absolute snapshots, not deltas, so a
// stale request can be detected against the live quantity.
type ManualAdjustmentRequest struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ProductID   uuid.UUID  `json:"product_id" db:"product_id"`
	OldQuantity int        `json:"old_quantity" db:"old_quantity"`
	NewQuantity int        `json:"new_quantity" db:"new_quantity"`
	Reason      string     `json:"reason" db:"reason"`
	RequestedBy uuid.UUID  `json:"requested_by" db:"requested_by"`
	Status      string     `json:"status" db:"status"`
	ApprovedBy  *uuid.UUID `json:"approved_by" db:"approved_by"`
	ApprovedAt  *time.Time `json:"approved_at" db:"approved_at"`
	Notes       *string    `json:"notes" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Delta is the signed warehouse change the request would apply.
func (r *ManualAdjustmentRequest) Delta() int {
	return r.NewQuantity - r.OldQuantity
}

// MovementType picks the adjustment movement classification by sign.
func (r *ManualAdjustmentRequest) MovementType() MovementType {
	if r.Delta() >= 0 {
		return MovementAdjustmentIn
	}
	return MovementAdjustmentOut
}

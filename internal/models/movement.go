package models

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a stock movement. The set is closed: every ledger
// caller picks one, and the allocation policy below is the single source of
// truth for which location a type touches and in which direction.
type MovementType string

const (
	MovementSale             MovementType = "SALE"
	MovementReplenishDisplay MovementType = "REPLENISH_DISPLAY"
	MovementTransferOut      MovementType = "TRANSFER_OUT"
	MovementTransferIn       MovementType = "TRANSFER_IN"
	MovementPurchaseReceipt  MovementType = "PURCHASE_RECEIPT"
	MovementAdjustmentIn     MovementType = "ADJUSTMENT_IN"
	MovementAdjustmentOut    MovementType = "ADJUSTMENT_OUT"
	MovementReturn           MovementType = "RETURN"
	MovementDamage           MovementType = "DAMAGE"
)

// Allocation names the location(s) a movement type touches.
type Allocation int

const (
	// AllocDisplayFirst consumes display stock first and spills the remainder
	// into the warehouse. Outbound only.
	AllocDisplayFirst Allocation = iota
	// AllocWarehouse touches warehouse stock only.
	AllocWarehouse
	// AllocDisplay touches display stock only.
	AllocDisplay
	// AllocNone records the movement without changing either quantity
	// (damage write-offs of stock that never became sellable).
	AllocNone
)

// MovementPolicy fixes direction and allocation for one movement type.
type MovementPolicy struct {
	Direction  int // +1 inbound, -1 outbound, 0 record-only
	Allocation Allocation
}

var movementPolicies = map[MovementType]MovementPolicy{
	MovementSale:             {Direction: -1, Allocation: AllocDisplayFirst},
	MovementReplenishDisplay: {Direction: -1, Allocation: AllocWarehouse},
	MovementTransferOut:      {Direction: -1, Allocation: AllocWarehouse},
	MovementTransferIn:       {Direction: +1, Allocation: AllocDisplay},
	MovementPurchaseReceipt:  {Direction: +1, Allocation: AllocWarehouse},
	MovementAdjustmentIn:     {Direction: +1, Allocation: AllocWarehouse},
	MovementAdjustmentOut:    {Direction: -1, Allocation: AllocWarehouse},
	MovementReturn:           {Direction: +1, Allocation: AllocWarehouse},
	MovementDamage:           {Direction: 0, Allocation: AllocNone},
}

// Policy returns the allocation policy for the type, and whether the type is
// part of the closed set.
func (t MovementType) Policy() (MovementPolicy, bool) {
	p, ok := movementPolicies[t]
	return p, ok
}

// Valid reports whether t belongs to the closed movement set.
func (t MovementType) Valid() bool {
	_, ok := movementPolicies[t]
	return ok
}

// Direction returns +1, -1 or 0 for the type. Unknown types report 0.
func (t MovementType) Direction() int {
	p, ok := movementPolicies[t]
	if !ok {
		return 0
	}
	return p.Direction
}

// MovementEntry is one immutable ledger row: a single stock change and its
// cause. Entries are only ever inserted, never updated or deleted.
type MovementEntry struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	ProductID   uuid.UUID    `json:"product_id" db:"product_id"`
	Movement    MovementType `json:"movement_type" db:"movement_type"`
	Quantity    int          `json:"quantity" db:"quantity"` // unsigned magnitude
	ReferenceID uuid.UUID    `json:"reference_id" db:"reference_id"`
	PerformedBy uuid.UUID    `json:"performed_by" db:"performed_by"`
	SourceTable string       `json:"source_table" db:"source_table"`
	TerminalID  *string      `json:"terminal_id" db:"terminal_id"`
	CreatedAt   time.Time    `json:"timestamp" db:"created_at"`
}

// Delta is the signed total-stock effect of the entry.
func (e *MovementEntry) Delta() int {
	return e.Quantity * e.Movement.Direction()
}

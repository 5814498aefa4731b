package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a committed point-of-sale transaction header. A committed sale is
// immutable: reversal happens only through a CustomerReturn.
type Sale struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	TerminalID    *string         `json:"terminal_id" db:"terminal_id"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// SaleItem is one line of a sale.
type SaleItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	SaleID    uuid.UUID       `json:"sale_id" db:"sale_id"`
	ProductID uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// LineTotal is quantity times unit price.
func (i *SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the durable, append-only record of a confirmed checkout. Created
// exactly once per successful confirm; only its status is ever updated
// afterwards, through the admin path.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          Status
	TotalPrice      decimal.Decimal
	ShippingAddress string
	ProductIDs      []uuid.UUID
	Items           []Item
	CreatedAt       time.Time
}

type Item struct {
	ProductID uuid.UUID
	Quantity  int32
	Price     decimal.Decimal
}

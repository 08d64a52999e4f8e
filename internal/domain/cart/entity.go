package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a user's cart, joined with the product's
// current catalog data.
type Line struct {
	ProductID   uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CategoryID  uuid.UUID
	Quantity    int32
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt32(l.Quantity))
}

// Total sums line subtotals. The cart repository computes the same value in
// SQL; this exists for domain-level callers and tests.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

package order

import (
	"time"

	"shop-api/internal/domain/cart"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// SnapshotLine is one cart line frozen at checkout time. Stock is the level
// observed when the snapshot was taken; confirm re-reads current stock and
// never trusts this value.
type SnapshotLine struct {
	ProductID   uuid.UUID
	Name        string
	Description string
	Quantity    int32
	UnitPrice   decimal.Decimal
	CategoryID  uuid.UUID
	Stock       int32
}

// Snapshot is a staged, not-yet-committed order proposal. Its ID is
// provisional and only meaningful within the staging window; the durable
// order id is assigned by the store at confirm time.
type Snapshot struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          Status
	Lines           []SnapshotLine
	ProductIDs      []uuid.UUID
	TotalPrice      decimal.Decimal
	ShippingAddress string
	CreatedAt       time.Time
}

// NewSnapshot freezes the given cart lines. Lines are immutable once staged;
// the live cart may keep changing underneath.
func NewSnapshot(userID uuid.UUID, lines []cart.Line, totalPrice decimal.Decimal, now time.Time) Snapshot {
	snapshotLines := lo.Map(lines, func(l cart.Line, _ int) SnapshotLine {
		return SnapshotLine{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.Price,
			CategoryID:  l.CategoryID,
			Stock:       l.Stock,
		}
	})

	return Snapshot{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     StatusPending,
		Lines:      snapshotLines,
		ProductIDs: lo.Map(lines, func(l cart.Line, _ int) uuid.UUID { return l.ProductID }),
		TotalPrice: totalPrice,
		CreatedAt:  now,
	}
}

// ToOrder builds the durable order to be persisted at confirm time. The
// returned order carries no ID; the store assigns one on insert.
func (s Snapshot) ToOrder(shippingAddress string) *Order {
	return &Order{
		UserID:          s.UserID,
		Status:          s.Status,
		TotalPrice:      s.TotalPrice,
		ShippingAddress: shippingAddress,
		ProductIDs:      s.ProductIDs,
		Items: lo.Map(s.Lines, func(l SnapshotLine, _ int) Item {
			return Item{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				Price:     l.UnitPrice,
			}
		}),
	}
}

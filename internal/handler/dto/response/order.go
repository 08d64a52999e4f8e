package response

import (
	"time"

	"shop-api/internal/domain/order"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CheckoutResponse echoes the staged order back to the client so it can show
// a confirmation screen before the second call commits anything.
type CheckoutResponse struct {
	ID         uuid.UUID            `json:"id"`
	UserID     uuid.UUID            `json:"userId"`
	Status     string               `json:"status"`
	ProductIDs []uuid.UUID          `json:"productsId"`
	Items      []CheckoutItemDetail `json:"items"`
	TotalPrice decimal.Decimal      `json:"totalPrice"`
	CreatedAt  time.Time            `json:"createdAt"`
}

type CheckoutItemDetail struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"userId"`
	Status          string              `json:"status"`
	TotalPrice      decimal.Decimal     `json:"totalPrice"`
	ShippingAddress string              `json:"shippingAddress"`
	ProductIDs      []uuid.UUID         `json:"productsId"`
	OrderItems      []OrderItemResponse `json:"orderItems"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func FromSnapshot(s *order.Snapshot) *CheckoutResponse {
	return &CheckoutResponse{
		ID:         s.ID,
		UserID:     s.UserID,
		Status:     s.Status.String(),
		ProductIDs: s.ProductIDs,
		Items: lo.Map(s.Lines, func(l order.SnapshotLine, _ int) CheckoutItemDetail {
			return CheckoutItemDetail{
				ProductID: l.ProductID,
				Name:      l.Name,
				Quantity:  l.Quantity,
				Price:     l.UnitPrice,
				Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)),
			}
		}),
		TotalPrice: s.TotalPrice,
		CreatedAt:  s.CreatedAt,
	}
}

func FromOrder(o *order.Order) *OrderResponse {
	return &OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          o.Status.String(),
		TotalPrice:      o.TotalPrice,
		ShippingAddress: o.ShippingAddress,
		ProductIDs:      o.ProductIDs,
		OrderItems: lo.Map(o.Items, func(i order.Item, _ int) OrderItemResponse {
			return OrderItemResponse{
				ProductID: i.ProductID,
				Quantity:  i.Quantity,
				Price:     i.Price,
			}
		}),
		CreatedAt: o.CreatedAt,
	}
}

func FromOrders(orders []order.Order) []OrderResponse {
	return lo.Map(orders, func(o order.Order, _ int) OrderResponse {
		return *FromOrder(&o)
	})
}

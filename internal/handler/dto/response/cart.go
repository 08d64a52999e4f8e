package response

import (
	"shop-api/internal/domain/cart"
	"shop-api/internal/usecase"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CartLineResponse struct {
	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int32           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
}

func FromCartView(view *usecase.CartView) *CartResponse {
	return &CartResponse{
		Items: lo.Map(view.Lines, func(l cart.Line, _ int) CartLineResponse {
			return CartLineResponse{
				ProductID:   l.ProductID,
				Name:        l.Name,
				Description: l.Description,
				Price:       l.Price,
				Quantity:    l.Quantity,
				Subtotal:    l.Subtotal(),
			}
		}),
		TotalPrice: view.TotalPrice,
	}
}

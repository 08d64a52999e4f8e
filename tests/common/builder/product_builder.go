//go:build unit || integration

package builder

import (
	"shop-api/internal/domain/cart"
	"shop-api/internal/domain/product"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductBuilder struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CategoryID  uuid.UUID
}

func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
		Stock:       int32(gofakeit.Number(1, 100)),
		CategoryID:  uuid.New(),
	}
}

func (b *ProductBuilder) With(mutate func(*ProductBuilder)) *ProductBuilder {
	mutate(b)
	return b
}

func (b *ProductBuilder) BuildDomain() (*product.Product, error) {
	return product.NewProduct(b.Name, b.Description, b.Price, b.Stock, b.CategoryID)
}

// BuildCartLine turns the product data into a cart line with the given quantity.
func (b *ProductBuilder) BuildCartLine(productID uuid.UUID, quantity int32) cart.Line {
	return cart.Line{
		ProductID:   productID,
		Name:        b.Name,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		CategoryID:  b.CategoryID,
		Quantity:    quantity,
	}
}

package request

import (
	"shop-api/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int32           `json:"stock" binding:"gte=0"`
	CategoryID  uuid.UUID       `json:"categoryId" binding:"required"`
}

func (r *CreateProductRequest) ToParams() usecase.CreateProductParams {
	return usecase.CreateProductParams{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
	}
}

type UpdateProductRequest = CreateProductRequest

package usecase

import (
	"context"
	"errors"

	"shop-api/internal/domain/product"
	"shop-api/internal/infra"
	"shop-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	Create(ctx context.Context, p *product.Product) error
	Update(ctx context.Context, p *product.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	List(ctx context.Context) ([]product.Product, error)
}

type CreateProductParams struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CategoryID  uuid.UUID
}

type ProductUseCase interface {
	CreateProduct(ctx context.Context, params CreateProductParams) (*product.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, params CreateProductParams) (*product.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
}

type productUseCaseImpl struct {
	productRepo ProductRepository
}

func NewProductUseCase(productRepo ProductRepository) ProductUseCase {
	return &productUseCaseImpl{productRepo: productRepo}
}

func (p *productUseCaseImpl) CreateProduct(ctx context.Context, params CreateProductParams) (*product.Product, error) {
	entity, err := product.NewProduct(params.Name, params.Description, params.Price, params.Stock, params.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := p.productRepo.Create(ctx, entity); err != nil {
		return nil, errs.Wrap(err, "failed to create product")
	}

	return p.productRepo.FindByID(ctx, entity.ID)
}

func (p *productUseCaseImpl) UpdateProduct(ctx context.Context, id uuid.UUID, params CreateProductParams) (*product.Product, error) {
	entity, err := p.productRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to find product")
	}

	entity.Name = params.Name
	entity.Description = params.Description
	entity.Price = params.Price
	entity.Stock = params.Stock
	entity.CategoryID = params.CategoryID

	if err := p.productRepo.Update(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to update product")
	}

	return p.productRepo.FindByID(ctx, id)
}

func (p *productUseCaseImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := p.productRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrProductNotFound
		}
		return errs.Wrap(err, "failed to delete product")
	}

	return nil
}

func (p *productUseCaseImpl) GetProduct(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	entity, err := p.productRepo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to find product")
	}

	return entity, nil
}

func (p *productUseCaseImpl) ListProducts(ctx context.Context) ([]product.Product, error) {
	products, err := p.productRepo.List(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list products")
	}

	return products, nil
}

package usecase

import (
	"context"
	"errors"

	"shop-api/internal/domain/cart"
	"shop-api/internal/infra"
	"shop-api/internal/infra/repository"
	"shop-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

type CartRepository interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Line, error)
	GetTotalPrice(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	ClearTx(ctx context.Context, db repository.DBTX, userID uuid.UUID) error
}

// CartView is a cart read: lines plus the SQL-computed total.
type CartView struct {
	Lines      []cart.Line
	TotalPrice decimal.Decimal
}

type CartUseCase interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartView, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartUseCaseImpl struct {
	cartRepo    CartRepository
	productRepo ProductRepository
}

func NewCartUseCase(cartRepo CartRepository, productRepo ProductRepository) CartUseCase {
	return &cartUseCaseImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (c *cartUseCaseImpl) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	lines, err := c.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to get cart")
	}

	total, err := c.cartRepo.GetTotalPrice(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to get cart total")
	}

	return &CartView{Lines: lines, TotalPrice: total}, nil
}

func (c *cartUseCaseImpl) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := c.productRepo.FindByID(ctx, productID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to find product")
	}

	if err := c.cartRepo.AddItem(ctx, userID, productID, quantity); err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to add cart item")
	}

	return c.GetCart(ctx, userID)
}

func (c *cartUseCaseImpl) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if err := c.cartRepo.UpdateItem(ctx, userID, productID, quantity); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, errs.Wrap(err, "failed to update cart item")
	}

	return c.GetCart(ctx, userID)
}

func (c *cartUseCaseImpl) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	if err := c.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, errs.Wrap(err, "failed to remove cart item")
	}

	return c.GetCart(ctx, userID)
}

func (c *cartUseCaseImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := c.cartRepo.Clear(ctx, userID); err != nil {
		return errs.Wrap(err, "failed to clear cart")
	}

	return nil
}

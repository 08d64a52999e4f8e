//go:build unit

package usecase

import (
	"context"
	"testing"

	"shop-api/internal/domain/cart"
	"shop-api/internal/domain/product"
	"shop-api/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

type CartUseCaseTestSuite struct {
	suite.Suite
	cartRepo    *MockCartRepository
	productRepo *MockProductRepository
	useCase     CartUseCase

	userID uuid.UUID
}

func (s *CartUseCaseTestSuite) SetupTest() {
	s.cartRepo = new(MockCartRepository)
	s.productRepo = new(MockProductRepository)
	s.useCase = NewCartUseCase(s.cartRepo, s.productRepo)
	s.userID = uuid.New()
}

func TestCartUseCaseSuite(t *testing.T) {
	suite.Run(t, new(CartUseCaseTestSuite))
}

func (s *CartUseCaseTestSuite) TestAddItem_Success() {
	productID := uuid.New()
	p := &product.Product{ID: productID, Name: "keyboard", Price: decimal.NewFromFloat(49.99), Stock: 10}
	lines := []cart.Line{{ProductID: productID, Name: "keyboard", Price: p.Price, Quantity: 2}}

	s.productRepo.On("FindByID", mock.Anything, productID).Return(p, nil)
	s.cartRepo.On("AddItem", mock.Anything, s.userID, productID, int32(2)).Return(nil)
	s.cartRepo.On("GetCart", mock.Anything, s.userID).Return(lines, nil)
	s.cartRepo.On("GetTotalPrice", mock.Anything, s.userID).Return(cart.Total(lines), nil)

	view, err := s.useCase.AddItem(context.Background(), s.userID, productID, 2)

	s.Require().NoError(err)
	s.Len(view.Lines, 1)
	s.True(decimal.NewFromFloat(99.98).Equal(view.TotalPrice))
}

func (s *CartUseCaseTestSuite) TestAddItem_InvalidQuantity() {
	_, err := s.useCase.AddItem(context.Background(), s.userID, uuid.New(), 0)

	s.ErrorIs(err, ErrInvalidQuantity)
	s.cartRepo.AssertNotCalled(s.T(), "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CartUseCaseTestSuite) TestAddItem_ProductNotFound() {
	productID := uuid.New()
	s.productRepo.On("FindByID", mock.Anything, productID).
		Return(nil, infra.WrapRepoErr("product not found", pgx.ErrNoRows, infra.KindNotFound))

	_, err := s.useCase.AddItem(context.Background(), s.userID, productID, 1)

	s.ErrorIs(err, ErrProductNotFound)
}

func (s *CartUseCaseTestSuite) TestUpdateItem_NotInCart() {
	productID := uuid.New()
	s.cartRepo.On("UpdateItem", mock.Anything, s.userID, productID, int32(3)).
		Return(infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound))

	_, err := s.useCase.UpdateItem(context.Background(), s.userID, productID, 3)

	s.ErrorIs(err, ErrCartItemNotFound)
}

func (s *CartUseCaseTestSuite) TestGetCart_Empty() {
	s.cartRepo.On("GetCart", mock.Anything, s.userID).Return([]cart.Line{}, nil)
	s.cartRepo.On("GetTotalPrice", mock.Anything, s.userID).Return(decimal.Zero, nil)

	view, err := s.useCase.GetCart(context.Background(), s.userID)

	s.Require().NoError(err)
	s.Empty(view.Lines)
	s.True(view.TotalPrice.IsZero())
}

//go:build unit

package usecase

import (
	"context"
	"testing"
	"time"

	"shop-api/internal/domain/cart"
	"shop-api/internal/domain/order"
	"shop-api/internal/domain/user"
	"shop-api/internal/infra"
	"shop-api/internal/infra/repository"
	"shop-api/internal/infra/staging"
	"shop-api/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Line), args.Error(1)
}

func (m *MockCartRepository) GetTotalPrice(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	args := m.Called(ctx, userID, productID, quantity)
	return args.Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepository) ClearTx(ctx context.Context, db repository.DBTX, userID uuid.UUID) error {
	args := m.Called(ctx, db, userID)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) StockForUpdate(ctx context.Context, db repository.DBTX, productIDs []uuid.UUID) (map[uuid.UUID]int32, error) {
	args := m.Called(ctx, db, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int32), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, db repository.DBTX, o *order.Order) (uuid.UUID, error) {
	args := m.Called(ctx, db, o)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) DecrementStock(ctx context.Context, db repository.DBTX, productID uuid.UUID, quantity int32) (bool, error) {
	args := m.Called(ctx, db, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// fakeTx stands in for a pgx transaction. Only Commit and Rollback are
// exercised by the orchestrator; everything else goes through the repository
// mocks, which receive the tx merely as a DBTX handle.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	if t.committed {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

type fakeTxBeginner struct {
	tx *fakeTx
}

func (b *fakeTxBeginner) Begin(_ context.Context) (pgx.Tx, error) {
	return b.tx, nil
}

type OrderUseCaseTestSuite struct {
	suite.Suite
	userRepo  *MockUserRepository
	cartRepo  *MockCartRepository
	orderRepo *MockOrderRepository
	staging   *staging.Store
	tx        *fakeTx
	clk       *clock.MockClock
	useCase   OrderUseCase

	userID uuid.UUID
	lines  []cart.Line
	total  decimal.Decimal
}

func (s *OrderUseCaseTestSuite) SetupTest() {
	s.userRepo = new(MockUserRepository)
	s.cartRepo = new(MockCartRepository)
	s.orderRepo = new(MockOrderRepository)
	s.clk = clock.NewMockClock(time.Now())
	s.staging = staging.NewStore(s.clk, 5*time.Minute, time.Minute)
	s.tx = &fakeTx{}

	s.useCase = NewOrderUseCase(
		s.userRepo,
		s.cartRepo,
		s.orderRepo,
		s.staging,
		&fakeTxBeginner{tx: s.tx},
		s.clk,
		10*time.Second,
	)

	s.userID = uuid.New()
	s.lines = []cart.Line{
		{ProductID: uuid.New(), Name: "keyboard", Price: decimal.NewFromFloat(49.99), Stock: 10, Quantity: 2},
		{ProductID: uuid.New(), Name: "mouse", Price: decimal.NewFromFloat(19.99), Stock: 3, Quantity: 1},
	}
	s.total = cart.Total(s.lines)
}

func TestOrderUseCaseSuite(t *testing.T) {
	suite.Run(t, new(OrderUseCaseTestSuite))
}

func (s *OrderUseCaseTestSuite) expectUserExists() {
	u := &user.User{ID: s.userID, Role: user.RoleUser}
	s.userRepo.On("FindByID", mock.Anything, s.userID).Return(u, nil)
}

func (s *OrderUseCaseTestSuite) stageCheckout() order.Snapshot {
	snapshot := order.NewSnapshot(s.userID, s.lines, s.total, s.clk.Now())
	s.staging.Set(s.userID, snapshot)
	return snapshot
}

func (s *OrderUseCaseTestSuite) stockFor(lines []cart.Line) map[uuid.UUID]int32 {
	stocks := make(map[uuid.UUID]int32, len(lines))
	for _, l := range lines {
		stocks[l.ProductID] = l.Stock
	}
	return stocks
}

func (s *OrderUseCaseTestSuite) TestCheckout_Success() {
	s.expectUserExists()
	s.cartRepo.On("GetCart", mock.Anything, s.userID).Return(s.lines, nil)
	s.cartRepo.On("GetTotalPrice", mock.Anything, s.userID).Return(s.total, nil)

	snapshot, err := s.useCase.Checkout(context.Background(), s.userID)

	s.Require().NoError(err)
	s.Equal(s.userID, snapshot.UserID)
	s.Equal(order.StatusPending, snapshot.Status)
	s.Len(snapshot.Lines, 2)
	s.True(s.total.Equal(snapshot.TotalPrice))

	staged, ok := s.staging.Get(s.userID)
	s.Require().True(ok, "checkout must stage the snapshot")
	s.Equal(snapshot.ID, staged.ID)
}

func (s *OrderUseCaseTestSuite) TestCheckout_OverwritesPreviousStaging() {
	s.expectUserExists()
	s.cartRepo.On("GetCart", mock.Anything, s.userID).Return(s.lines, nil)
	s.cartRepo.On("GetTotalPrice", mock.Anything, s.userID).Return(s.total, nil)

	stale := s.stageCheckout()

	snapshot, err := s.useCase.Checkout(context.Background(), s.userID)

	s.Require().NoError(err)
	staged, ok := s.staging.Get(s.userID)
	s.Require().True(ok)
	s.Equal(snapshot.ID, staged.ID)
	s.NotEqual(stale.ID, staged.ID)
}

func (s *OrderUseCaseTestSuite) TestCheckout_EmptyCart() {
	s.expectUserExists()
	s.cartRepo.On("GetCart", mock.Anything, s.userID).Return([]cart.Line{}, nil)

	_, err := s.useCase.Checkout(context.Background(), s.userID)

	s.ErrorIs(err, ErrCartEmpty)
	_, ok := s.staging.Get(s.userID)
	s.False(ok, "nothing should be staged for an empty cart")
}

func (s *OrderUseCaseTestSuite) TestCheckout_UserNotFound() {
	s.userRepo.On("FindByID", mock.Anything, s.userID).
		Return(nil, infra.WrapRepoErr("user not found", pgx.ErrNoRows, infra.KindNotFound))

	_, err := s.useCase.Checkout(context.Background(), s.userID)

	s.ErrorIs(err, ErrUserNotFound)
}

func (s *OrderUseCaseTestSuite) TestConfirm_Success() {
	s.expectUserExists()
	snapshot := s.stageCheckout()

	orderID := uuid.New()
	s.orderRepo.On("StockForUpdate", mock.Anything, s.tx, snapshot.ProductIDs).
		Return(s.stockFor(s.lines), nil)
	s.orderRepo.On("Create", mock.Anything, s.tx, mock.Anything).Return(orderID, nil)
	for _, l := range s.lines {
		s.orderRepo.On("DecrementStock", mock.Anything, s.tx, l.ProductID, l.Quantity).Return(true, nil)
	}
	s.cartRepo.On("ClearTx", mock.Anything, s.tx, s.userID).Return(nil)
	s.orderRepo.On("FindByID", mock.Anything, orderID).Return(&order.Order{
		ID:              orderID,
		UserID:          s.userID,
		Status:          order.StatusPending,
		TotalPrice:      s.total,
		ShippingAddress: "221B Baker Street",
	}, nil)

	created, err := s.useCase.Confirm(context.Background(), s.userID, "221B Baker Street")

	s.Require().NoError(err)
	s.Equal(orderID, created.ID)
	s.True(s.tx.committed)
	s.False(s.tx.rolledBack)

	_, ok := s.staging.Get(s.userID)
	s.False(ok, "staging must be cleared after a successful confirm")

	s.orderRepo.AssertExpectations(s.T())
	s.cartRepo.AssertExpectations(s.T())
}

func (s *OrderUseCaseTestSuite) TestConfirm_NoStagedCheckout() {
	_, err := s.useCase.Confirm(context.Background(), s.userID, "somewhere")

	s.ErrorIs(err, ErrCheckoutSessionExpired)
}

func (s *OrderUseCaseTestSuite) TestConfirm_ExpiredStaging() {
	s.stageCheckout()
	s.clk.Add(6 * time.Minute)

	_, err := s.useCase.Confirm(context.Background(), s.userID, "somewhere")

	s.ErrorIs(err, ErrCheckoutSessionExpired)
}

func (s *OrderUseCaseTestSuite) TestConfirm_InsufficientStock() {
	s.expectUserExists()
	snapshot := s.stageCheckout()

	// Another buyer drained the first product since checkout.
	stocks := s.stockFor(s.lines)
	stocks[s.lines[0].ProductID] = s.lines[0].Quantity - 1

	s.orderRepo.On("StockForUpdate", mock.Anything, s.tx, snapshot.ProductIDs).Return(stocks, nil)

	_, err := s.useCase.Confirm(context.Background(), s.userID, "somewhere")

	s.ErrorIs(err, ErrInsufficientStock)
	s.ErrorContains(err, s.lines[0].ProductID.String())
	s.False(s.tx.committed)
	s.True(s.tx.rolledBack)

	_, ok := s.staging.Get(s.userID)
	s.False(ok, "staging must be cleared even when confirm fails")

	s.orderRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderUseCaseTestSuite) TestConfirm_ProductDeletedSinceCheckout() {
	s.expectUserExists()
	snapshot := s.stageCheckout()

	stocks := s.stockFor(s.lines)
	delete(stocks, s.lines[1].ProductID)

	s.orderRepo.On("StockForUpdate", mock.Anything, s.tx, snapshot.ProductIDs).Return(stocks, nil)

	_, err := s.useCase.Confirm(context.Background(), s.userID, "somewhere")

	s.ErrorIs(err, ErrProductNotFound)
	s.ErrorContains(err, s.lines[1].ProductID.String())
	s.True(s.tx.rolledBack)
}

func (s *OrderUseCaseTestSuite) TestConfirm_DecrementGuardFails() {
	s.expectUserExists()
	snapshot := s.stageCheckout()

	orderID := uuid.New()
	s.orderRepo.On("StockForUpdate", mock.Anything, s.tx, snapshot.ProductIDs).
		Return(s.stockFor(s.lines), nil)
	s.orderRepo.On("Create", mock.Anything, s.tx, mock.Anything).Return(orderID, nil)
	s.orderRepo.On("DecrementStock", mock.Anything, s.tx, s.lines[0].ProductID, s.lines[0].Quantity).
		Return(false, nil)

	_, err := s.useCase.Confirm(context.Background(), s.userID, "somewhere")

	s.ErrorIs(err, ErrInsufficientStock)
	s.True(s.tx.rolledBack)
	s.cartRepo.AssertNotCalled(s.T(), "ClearTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderUseCaseTestSuite) TestUpdateOrderStatus_InvalidStatus() {
	_, err := s.useCase.UpdateOrderStatus(context.Background(), uuid.New(), "Teleported")

	s.ErrorIs(err, order.ErrInvalidStatus)
}

func (s *OrderUseCaseTestSuite) TestUpdateOrderStatus_NotFound() {
	id := uuid.New()
	s.orderRepo.On("UpdateStatus", mock.Anything, id, order.StatusShipped).
		Return(infra.WrapRepoErr("order not found", nil, infra.KindNotFound))

	_, err := s.useCase.UpdateOrderStatus(context.Background(), id, "Shipped")

	s.ErrorIs(err, ErrOrderNotFound)
}

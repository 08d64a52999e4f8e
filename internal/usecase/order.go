package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"shop-api/internal/domain/order"
	"shop-api/internal/infra"
	"shop-api/internal/infra/repository"
	"shop-api/internal/pkg/clock"
	"shop-api/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrCartEmpty              = errors.New("no items in the cart to checkout")
	ErrCheckoutSessionExpired = errors.New("checkout session expired or not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrConfirmTimeout         = errors.New("confirm transaction timed out")

	// Error markers for categorization
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

type OrderRepository interface {
	StockForUpdate(ctx context.Context, db repository.DBTX, productIDs []uuid.UUID) (map[uuid.UUID]int32, error)
	Create(ctx context.Context, db repository.DBTX, o *order.Order) (uuid.UUID, error)
	DecrementStock(ctx context.Context, db repository.DBTX, productID uuid.UUID, quantity int32) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error)
	FindAll(ctx context.Context) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error
}

// CheckoutStaging bridges the two client calls: checkout stages a snapshot,
// confirm reads and then discards it.
type CheckoutStaging interface {
	Set(userID uuid.UUID, snapshot order.Snapshot)
	Get(userID uuid.UUID) (order.Snapshot, bool)
	Clear(userID uuid.UUID)
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type OrderUseCase interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*order.Snapshot, error)
	Confirm(ctx context.Context, userID uuid.UUID, shippingAddress string) (*order.Order, error)
	GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]order.Order, error)
	GetAllOrders(ctx context.Context) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*order.Order, error)
}

type orderUseCaseImpl struct {
	userRepo  UserRepository
	cartRepo  CartRepository
	orderRepo OrderRepository
	staging   CheckoutStaging
	db        TxBeginner
	clock     clock.Clock

	confirmTimeout time.Duration
}

func NewOrderUseCase(
	userRepo UserRepository,
	cartRepo CartRepository,
	orderRepo OrderRepository,
	staging CheckoutStaging,
	db TxBeginner,
	clk clock.Clock,
	confirmTimeout time.Duration,
) OrderUseCase {
	return &orderUseCaseImpl{
		userRepo:       userRepo,
		cartRepo:       cartRepo,
		orderRepo:      orderRepo,
		staging:        staging,
		db:             db,
		clock:          clk,
		confirmTimeout: confirmTimeout,
	}
}

// Checkout snapshots the user's cart and stages it for confirmation. This is
// a pure read-and-stage step: no inventory or order writes happen here.
func (u *orderUseCaseImpl) Checkout(ctx context.Context, userID uuid.UUID) (*order.Snapshot, error) {
	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Wrap(err, "failed to find user")
	}

	lines, err := u.cartRepo.GetCart(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to read cart")
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	// The cart's own total computation is authoritative; staging the same
	// value keeps the displayed and staged totals from drifting apart.
	total, err := u.cartRepo.GetTotalPrice(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to compute cart total")
	}

	snapshot := order.NewSnapshot(userID, lines, total, u.clock.Now())
	u.staging.Set(userID, snapshot)

	return &snapshot, nil
}

// Confirm commits the staged snapshot into a durable order: re-validates
// stock, creates the order with its items, decrements inventory and clears
// the cart, all in one transaction. Whatever the outcome, the staging entry
// is discarded, so a failed confirm forces a fresh checkout instead of a
// retry against stale state.
func (u *orderUseCaseImpl) Confirm(ctx context.Context, userID uuid.UUID, shippingAddress string) (*order.Order, error) {
	snapshot, ok := u.staging.Get(userID)
	if !ok {
		return nil, ErrCheckoutSessionExpired
	}
	defer u.staging.Clear(userID)

	if _, err := u.userRepo.FindByID(ctx, userID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errs.Wrap(err, "failed to find user")
	}

	orderID, err := u.runConfirmTransaction(ctx, snapshot, shippingAddress)
	if err != nil {
		return nil, err
	}

	created, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load created order")
	}

	return created, nil
}

func (u *orderUseCaseImpl) runConfirmTransaction(ctx context.Context, snapshot order.Snapshot, shippingAddress string) (uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, u.confirmTimeout)
	defer cancel()

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("failed to rollback confirm transaction", "error", rollbackErr)
			}
		}
	}()

	// Stock must be re-read at transaction time under row locks; the
	// snapshot's stock values are stale by definition.
	stocks, err := u.orderRepo.StockForUpdate(ctx, tx, snapshot.ProductIDs)
	if err != nil {
		return uuid.Nil, u.markTxErr(ctx, err)
	}

	for _, line := range snapshot.Lines {
		stock, exists := stocks[line.ProductID]
		if !exists {
			return uuid.Nil, errs.Mark(errs.Newf("product %s no longer exists", line.ProductID), ErrProductNotFound)
		}
		if stock < line.Quantity {
			return uuid.Nil, errs.Mark(errs.Newf("insufficient stock for product %s", line.ProductID), ErrInsufficientStock)
		}
	}

	orderID, err := u.orderRepo.Create(ctx, tx, snapshot.ToOrder(shippingAddress))
	if err != nil {
		return uuid.Nil, u.markTxErr(ctx, err)
	}

	for _, line := range snapshot.Lines {
		decremented, err := u.orderRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return uuid.Nil, u.markTxErr(ctx, err)
		}
		if !decremented {
			return uuid.Nil, errs.Mark(errs.Newf("insufficient stock for product %s", line.ProductID), ErrInsufficientStock)
		}
	}

	if err := u.cartRepo.ClearTx(ctx, tx, snapshot.UserID); err != nil {
		return uuid.Nil, u.markTxErr(ctx, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, u.markTxErr(ctx, err)
	}

	return orderID, nil
}

func (u *orderUseCaseImpl) markTxErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errs.Mark(err, ErrConfirmTimeout)
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func (u *orderUseCaseImpl) GetOrderHistory(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	orders, err := u.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find user orders")
	}

	return orders, nil
}

func (u *orderUseCaseImpl) GetAllOrders(ctx context.Context) ([]order.Order, error) {
	orders, err := u.orderRepo.FindAll(ctx)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find orders")
	}

	return orders, nil
}

func (u *orderUseCaseImpl) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*order.Order, error) {
	parsed, err := order.NewStatus(status)
	if err != nil {
		return nil, err
	}

	if err := u.orderRepo.UpdateStatus(ctx, id, parsed); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Wrap(err, "failed to update order status")
	}

	updated, err := u.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load updated order")
	}

	return updated, nil
}

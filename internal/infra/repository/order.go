package repository

import (
	"context"
	"errors"

	"shop-api/internal/domain/order"
	"shop-api/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// StockForUpdate re-reads current stock for the given products under row
// locks. Concurrent confirm transactions touching the same products serialize
// here, so two of them can never both observe stock that only covers one.
// Products that no longer exist are simply absent from the result.
func (r *OrderRepository) StockForUpdate(ctx context.Context, db DBTX, productIDs []uuid.UUID) (map[uuid.UUID]int32, error) {
	rows, err := db.Query(ctx, `
		SELECT id, stock
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`,
		productIDs,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock product stock", err)
	}
	defer rows.Close()

	stocks := make(map[uuid.UUID]int32, len(productIDs))
	for rows.Next() {
		var (
			id    uuid.UUID
			stock int32
		)
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product stock", err)
		}
		stocks[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product stock", err)
	}

	return stocks, nil
}

func (r *OrderRepository) Create(ctx context.Context, db DBTX, o *order.Order) (uuid.UUID, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO orders (user_id, status, total_price, shipping_address, product_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		o.UserID, string(o.Status), o.TotalPrice, o.ShippingAddress, o.ProductIDs,
	)

	var orderID uuid.UUID
	if err := row.Scan(&orderID); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items {
		_, err := db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			orderID, item.ProductID, item.Quantity, item.Price,
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return orderID, nil
}

// DecrementStock re-checks the stock guard at write time; reports false when
// the guard fails instead of letting the CHECK constraint fire.
func (r *OrderRepository) DecrementStock(ctx context.Context, db DBTX, productID uuid.UUID, quantity int32) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to decrement stock", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, status, total_price, shipping_address, product_ids, created_at
		FROM orders
		WHERE id = $1`,
		id,
	)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.findItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]order.Order, error) {
	return r.findMany(ctx, `
		SELECT id, user_id, status, total_price, shipping_address, product_ids, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]order.Order, error) {
	return r.findMany(ctx, `
		SELECT id, user_id, status, total_price, shipping_address, product_ids, created_at
		FROM orders
		ORDER BY created_at DESC`,
	)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status order.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET status = $2
		WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *OrderRepository) findMany(ctx context.Context, sql string, args ...any) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query orders", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate orders", err)
	}

	for i := range orders {
		items, err := r.findItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}

	return items, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var (
		o         order.Order
		statusStr string
	)

	err := row.Scan(&o.ID, &o.UserID, &statusStr, &o.TotalPrice, &o.ShippingAddress, &o.ProductIDs, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan order", err)
	}

	status, err := order.NewStatus(statusStr)
	if err != nil {
		return nil, infra.WrapRepoErr("stored order status is invalid", err)
	}
	o.Status = status

	return &o, nil
}

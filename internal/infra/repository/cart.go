package repository

import (
	"context"
	"errors"

	"shop-api/internal/domain/cart"
	"shop-api/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const pgErrCodeForeignKeyViolation = "23503"

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`,
		userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get cart", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Description, &l.Price, &l.Stock, &l.CategoryID, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart lines", err)
	}

	return lines, nil
}

// GetTotalPrice computes the cart total in SQL. This is the single source of
// truth for totals: the staged checkout snapshot stores exactly this value.
func (r *CartRepository) GetTotalPrice(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(ci.quantity * p.price), 0)
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1`,
		userID,
	)

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, infra.WrapRepoErr("failed to compute cart total", err)
	}

	return total, nil
}

func (r *CartRepository) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, productID, quantity,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeForeignKeyViolation {
			return infra.WrapRepoErr("product or user does not exist", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to add cart item", err)
	}

	return nil
}

func (r *CartRepository) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int32) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_items
		SET quantity = $3
		WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to remove cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.ClearTx(ctx, r.pool, userID)
}

// ClearTx takes a DBTX so the confirm transaction can empty the cart as part
// of its atomic unit.
func (r *CartRepository) ClearTx(ctx context.Context, db DBTX, userID uuid.UUID) error {
	_, err := db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}

	return nil
}

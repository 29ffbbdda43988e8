package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeymart/storefront/internal/order/app"
	"github.com/honeymart/storefront/internal/order/domain"
)

const uniqueViolation = "23505"

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// CreateOrderTx writes the order header and all lines inside one transaction.
// Statement failures are definite: the transaction rolls back and nothing was
// written. A commit failure is different — once COMMIT is in flight the server
// may have applied it even though we never heard back, so those surface as
// ErrIndeterminateOutcome and the caller must re-check instead of assuming
// failure.
func (r *OrderRepo) CreateOrderTx(ctx context.Context, order domain.Order) (domain.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	orderID := uuid.New()

	var token *string
	if order.CheckoutToken != "" {
		token = &order.CheckoutToken
	}

	var createdAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, buyer_id, status, currency, total_amount, checkout_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING created_at`,
		orderID, order.BuyerID, order.Status, order.Currency, order.TotalAmount, token,
	).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, app.ErrDuplicateToken
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	lines := make([]domain.Line, 0, len(order.Lines))
	for i, ln := range order.Lines {
		productID, err := uuid.Parse(ln.ProductID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("line %d: invalid product id: %w", i, err)
		}

		lineID := uuid.New()
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, name, unit_price, quantity, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			lineID, orderID, productID, ln.Name, ln.UnitPrice, ln.Quantity, ln.LineTotal)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insert line %d: %w", i, err)
		}

		ln.ID = lineID.String()
		ln.OrderID = orderID.String()
		lines = append(lines, ln)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// The server answered, so the transaction definitely rolled back.
			return domain.Order{}, fmt.Errorf("commit order: %w", err)
		}
		return domain.Order{}, fmt.Errorf("%w: %v", app.ErrIndeterminateOutcome, err)
	}

	order.ID = orderID.String()
	order.CreatedAt = createdAt
	order.Lines = lines
	return order, nil
}

func (r *OrderRepo) GetByToken(ctx context.Context, token string) (domain.Order, error) {
	var (
		orderID uuid.UUID
		order   domain.Order
		dbToken *string
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, buyer_id, status, currency, total_amount, checkout_token, created_at
		FROM orders
		WHERE checkout_token = $1`, token,
	).Scan(&orderID, &order.BuyerID, &order.Status, &order.Currency, &order.TotalAmount, &dbToken, &order.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("get order by token: %w", err)
	}

	order.ID = orderID.String()
	if dbToken != nil {
		order.CheckoutToken = *dbToken
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, unit_price, quantity, line_total
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ln        domain.Line
			lineID    uuid.UUID
			lnOrderID uuid.UUID
			productID uuid.UUID
		)
		if err := rows.Scan(&lineID, &lnOrderID, &productID, &ln.Name, &ln.UnitPrice, &ln.Quantity, &ln.LineTotal); err != nil {
			return domain.Order{}, err
		}
		ln.ID = lineID.String()
		ln.OrderID = lnOrderID.String()
		ln.ProductID = productID.String()
		order.Lines = append(order.Lines, ln)
	}

	return order, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/honeymart/storefront/internal/catalog/app"
	"github.com/honeymart/storefront/internal/catalog/domain"
)

// ProductRepo is the products table adapter. Besides catalog CRUD it owns the
// stock counter mutations: ConditionalDecrement and Increment are the only
// writes that touch stock outside the admin surface, and both are single
// guarded statements so no caller ever does a read-then-write on stock.
type ProductRepo struct {
	pool *pgxpool.Pool
}

func NewProductRepo(pool *pgxpool.Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price_amount, currency, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING created_at, updated_at`,
		id, p.Name, p.Description, p.Price.Amount, p.Price.Currency, p.Stock,
	)

	var createdAt, updatedAt time.Time
	if err := row.Scan(&createdAt, &updatedAt); err != nil {
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	p.ID = id.String()
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return p, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price_amount, currency, stock, created_at, updated_at
		FROM products
		WHERE id = $1`, prodID)

	return scanProduct(row)
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	var cur *uuid.UUID
	if strings.TrimSpace(cursor) != "" {
		uid, err := uuid.Parse(strings.TrimSpace(cursor))
		if err != nil {
			return nil, "", app.ErrInvalidInput
		}
		cur = &uid
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price_amount, currency, stock, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		  AND ($2::uuid IS NULL OR id > $2)
		ORDER BY id
		LIMIT $3`,
		strings.TrimSpace(query), cur, limit)
	if err != nil {
		return nil, "", fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(out) == limit {
		nextCursor = out[len(out)-1].ID
	}

	return out, nextCursor, nil
}

func (r *ProductRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price_amount, currency, stock, created_at, updated_at
		FROM products
		WHERE stock > 0
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list available products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProductRepo) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	prodID, err := uuid.Parse(p.ID)
	if err != nil {
		return domain.Product{}, app.ErrInvalidInput
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_amount = $4, currency = $5, stock = $6, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, price_amount, currency, stock, created_at, updated_at`,
		prodID, p.Name, p.Description, p.Price.Amount, p.Price.Currency, p.Stock)

	return scanProduct(row)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	prodID, err := uuid.Parse(id)
	if err != nil {
		return app.ErrInvalidInput
	}

	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, prodID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ConditionalDecrement applies stock -= qty only when stock >= qty, as one
// atomic statement. The stock comparison lives inside the UPDATE guard, so
// concurrent checkouts contending for the last units serialize on the row and
// at most one of them observes the guard as satisfied.
func (r *ProductRepo) ConditionalDecrement(ctx context.Context, productID string, qty int32) (bool, error) {
	prodID, err := uuid.Parse(productID)
	if err != nil {
		return false, app.ErrInvalidInput
	}
	if qty <= 0 {
		return false, app.ErrInvalidInput
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`,
		prodID, qty)
	if err != nil {
		return false, fmt.Errorf("conditional decrement: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

// Increment restores stock released by a failed checkout.
func (r *ProductRepo) Increment(ctx context.Context, productID string, qty int32) error {
	prodID, err := uuid.Parse(productID)
	if err != nil {
		return app.ErrInvalidInput
	}
	if qty <= 0 {
		return app.ErrInvalidInput
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1`,
		prodID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return app.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		id          uuid.UUID
		p           domain.Product
		priceAmount int64
		currency    string
	)

	err := row.Scan(&id, &p.Name, &p.Description, &priceAmount, &currency, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}

	p.ID = id.String()
	p.Price = domain.Money{Currency: currency, Amount: priceAmount}
	return p, nil
}

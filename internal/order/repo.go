package order

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
)

type Repository interface {
	// Create persists the order and its items in one transaction; on error
	// nothing is written.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Storage("begin order tx", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, user_name, created_at)
		VALUES ($1,$2,$3,$4)
	`, o.ID, o.UserID, o.UserName, o.CreatedAt); err != nil {
		return apperr.Storage("insert order", err)
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, title, description, price, image_url, quantity)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, it.ID, o.ID, it.ProductID, it.Title, it.Description, it.Price.String(), it.ImageURL, it.Quantity); err != nil {
			return apperr.Storage("insert order item", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return apperr.Storage("commit order tx", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, user_name, created_at
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.UserID, &o.UserName, &o.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Storage("get order", err)
	}

	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, user_name, created_at
		FROM orders WHERE user_id=$1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, apperr.Storage("list orders", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserName, &o.CreatedAt); err != nil {
			return nil, apperr.Storage("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list orders", err)
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PGRepo) items(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, title, description, price::text, image_url, quantity
		FROM order_items WHERE order_id=$1
	`, orderID)
	if err != nil {
		return nil, apperr.Storage("list order items", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title, &it.Description, &price, &it.ImageURL, &it.Quantity); err != nil {
			return nil, apperr.Storage("scan order item", err)
		}
		d, err := decimal.NewFromString(price)
		if err != nil {
			return nil, apperr.Storage("parse item price", err)
		}
		it.Price = d
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list order items", err)
	}
	return items, nil
}

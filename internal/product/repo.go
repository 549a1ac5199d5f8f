// Package product provides the catalog repository interface and its
// PostgreSQL implementation.
package product

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, page, pageSize int) (Page, error)
	ListByOwner(ctx context.Context, userID string) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, title, description, price, image_url, user_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW(),NOW())
	`, p.ID, p.Title, p.Description, p.Price.String(), p.ImageURL, p.UserID)
	if err != nil {
		return apperr.Storage("create product", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, price::text, image_url, user_id, created_at, updated_at
		FROM products WHERE id=$1
	`, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Storage("get product", err)
	}
	return p, nil
}

// List returns one catalog page in insertion order. Pages beyond the last
// yield an empty slice, not an error.
func (r *PGRepo) List(ctx context.Context, page, pageSize int) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return Page{}, apperr.Storage("count products", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, price::text, image_url, user_id, created_at, updated_at
		FROM products
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`, pageSize, (page-1)*pageSize)
	if err != nil {
		return Page{}, apperr.Storage("list products", err)
	}
	defer rows.Close()

	items, err := collectProducts(rows)
	if err != nil {
		return Page{}, apperr.Storage("scan products", err)
	}
	return NewPage(items, total, page, pageSize), nil
}

func (r *PGRepo) ListByOwner(ctx context.Context, userID string) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, title, description, price::text, image_url, user_id, created_at, updated_at
		FROM products WHERE user_id=$1
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, apperr.Storage("list products by owner", err)
	}
	defer rows.Close()

	items, err := collectProducts(rows)
	if err != nil {
		return nil, apperr.Storage("scan products", err)
	}
	return items, nil
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET title = $2,
		    description = $3,
		    price = $4,
		    image_url = $5,
		    updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Title, p.Description, p.Price.String(), p.ImageURL)
	if err != nil {
		return apperr.Storage("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product")
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, apperr.Storage("delete product", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var price string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &price, &p.ImageURL, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

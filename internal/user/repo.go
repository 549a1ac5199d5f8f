package user

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petrin/storefront/internal/apperr"
	"github.com/petrin/storefront/internal/cart"
)

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetToken(ctx context.Context, token string) (*User, error)
	// Save writes the whole user row, embedded cart included, in one
	// statement. Last write wins for concurrent saves of the same user.
	Save(ctx context.Context, u *User) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cartJSON, err := json.Marshal(u.Cart)
	if err != nil {
		return apperr.Storage("encode cart", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, cart, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NOW(),NOW())
	`, u.ID, u.Email, u.Name, u.PasswordHash, cartJSON)
	if err != nil {
		return classifyInsertErr(err)
	}
	return nil
}

// classifyInsertErr keeps the unique-email violation as a field error and
// lets everything else surface as a storage failure.
func classifyInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return apperr.Validation("email already registered", "email")
	}
	return apperr.Storage("create user", err)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.getBy(ctx, `id=$1`, id)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, `email=$1`, email)
}

func (r *PGRepo) GetByResetToken(ctx context.Context, token string) (*User, error) {
	return r.getBy(ctx, `reset_token=$1`, token)
}

func (r *PGRepo) getBy(ctx context.Context, cond string, arg any) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT id, email, name, password_hash,
		       COALESCE(reset_token, ''), COALESCE(reset_token_expires_at, 'epoch'::timestamptz),
		       cart, created_at, updated_at
		FROM users WHERE `+cond, arg)

	var u User
	var cartJSON []byte
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash,
		&u.ResetToken, &u.ResetTokenExpiresAt, &cartJSON, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NotFound("user")
		}
		return nil, apperr.Storage("get user", err)
	}
	if u.ResetTokenExpiresAt.Unix() == 0 {
		u.ResetTokenExpiresAt = time.Time{}
	}
	if len(cartJSON) > 0 {
		if err := json.Unmarshal(cartJSON, &u.Cart); err != nil {
			return nil, apperr.Storage("decode cart", err)
		}
	} else {
		u.Cart = cart.Cart{}
	}
	return &u, nil
}

func (r *PGRepo) Save(ctx context.Context, u *User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cartJSON, err := json.Marshal(u.Cart)
	if err != nil {
		return apperr.Storage("encode cart", err)
	}
	var expires *time.Time
	if !u.ResetTokenExpiresAt.IsZero() {
		expires = &u.ResetTokenExpiresAt
	}
	var token *string
	if u.ResetToken != "" {
		token = &u.ResetToken
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2,
		    name = $3,
		    password_hash = $4,
		    reset_token = $5,
		    reset_token_expires_at = $6,
		    cart = $7,
		    updated_at = NOW()
		WHERE id = $1
	`, u.ID, u.Email, u.Name, u.PasswordHash, token, expires, cartJSON)
	if err != nil {
		return apperr.Storage("save user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

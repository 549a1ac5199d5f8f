package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
)

type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// NUMERIC in Postgres; decimal avoids float rounding on prices
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	UserID    string          `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateProductRequest payload of creation.
type CreateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

// UpdateProductRequest payload of edit. Empty fields keep their value;
// image_url, when set, replaces the stored image.
type UpdateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
}

// Validate checks the catalog input rules shared by create and edit:
// title at least 3 chars, positive price, description 5 to 400 chars.
// The returned error carries one identifier per offending field.
func Validate(title, price, description string) error {
	var fields []string
	if len(title) < 3 {
		fields = append(fields, "title")
	}
	if p, err := decimal.NewFromString(price); err != nil || !p.IsPositive() {
		fields = append(fields, "price")
	}
	if len(description) < 5 || len(description) > 400 {
		fields = append(fields, "description")
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid product fields", fields...)
	}
	return nil
}

package user

import (
	"time"

	"github.com/petrin/storefront/internal/cart"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Cart         cart.Cart `json:"cart"`
	// Reset token fields are zero-valued when no reset is pending.
	ResetToken          string    `json:"-"`
	ResetTokenExpiresAt time.Time `json:"-"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

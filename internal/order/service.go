package order

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/petrin/storefront/internal/apperr"
	"github.com/petrin/storefront/internal/cart"
	"github.com/petrin/storefront/internal/product"
	"github.com/petrin/storefront/internal/user"
)

// Service turns carts into immutable order snapshots.
type Service struct {
	orders   Repository
	products product.Repository
	users    user.Repository
}

func NewService(orders Repository, products product.Repository, users user.Repository) *Service {
	return &Service{orders: orders, products: products, users: users}
}

// Checkout resolves every cart entry against the live catalog, copies the
// product fields into line items, persists the order, then clears the cart.
//
// If any cart entry no longer resolves, no order is created and the cart is
// left alone. If persisting fails, no order exists. If clearing the cart
// fails after the order is persisted, the failure is logged and the order
// stands: order creation is at-least-once, cart clearing best-effort.
func (s *Service) Checkout(ctx context.Context, u *user.User) (*Order, error) {
	if u.Cart.IsEmpty() {
		return nil, apperr.Validation("cart is empty", "cart")
	}

	o := &Order{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		CreatedAt: time.Now().UTC(),
	}
	for _, entry := range u.Cart.Items {
		p, err := s.products.GetByID(ctx, entry.ProductID)
		if err != nil {
			// deleted after being added to the cart, or storage trouble
			return nil, err
		}
		o.Items = append(o.Items, Item{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ProductID:   p.ID,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			Quantity:    entry.Quantity,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	u.Cart = cart.Clear(u.Cart)
	if err := s.users.Save(ctx, u); err != nil {
		log.Printf("[order] cart clear failed after order %s was persisted: %v", o.ID, err)
	}
	return o, nil
}

// ForPurchaser loads an order and checks it belongs to userID before
// returning it.
func (s *Service) ForPurchaser(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.Unauthorized("order belongs to another user")
	}
	return o, nil
}

// History lists the user's orders, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable purchase record. Items carry their own copy of the
// product data taken at checkout time; later catalog edits or deletions do
// not reach back into past orders.
type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is one order line: product fields copied verbatim plus the quantity.
type Item struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is quantity * unit price.
func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Total sums the subtotals of all line items.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

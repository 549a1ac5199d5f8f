// Package cart implements the per-user cart ledger as a plain value type.
// All operations return a new value; persisting the owning user is the
// caller's job.
package cart

type Item struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart keeps one entry per product, in insertion order.
type Cart struct {
	Items []Item `json:"items"`
}

// Add increments the product's quantity if it is already in the cart,
// otherwise appends a new entry with quantity 1.
func Add(c Cart, productID string) Cart {
	items := append([]Item(nil), c.Items...)
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity++
			return Cart{Items: items}
		}
	}
	items = append(items, Item{ProductID: productID, Quantity: 1})
	return Cart{Items: items}
}

// Remove drops every entry for productID. Removing an absent product is a
// no-op.
func Remove(c Cart, productID string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	return Cart{Items: items}
}

func Clear(Cart) Cart { return Cart{} }

func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Quantity returns the quantity for productID, 0 when absent.
func (c Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

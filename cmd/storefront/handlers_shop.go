package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
	"github.com/petrin/storefront/internal/cart"
	"github.com/petrin/storefront/internal/invoice"
	"github.com/petrin/storefront/internal/order"
	"github.com/petrin/storefront/internal/payment"
	"github.com/petrin/storefront/internal/product"
	"github.com/petrin/storefront/internal/user"
)

// cartEntry is a cart item resolved against the live catalog.
type cartEntry struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// resolveCart joins cart entries with their current product records.
// Entries whose product no longer exists come back in the second return.
func resolveCart(c *gin.Context, products product.Repository, ct cart.Cart) ([]cartEntry, []string, error) {
	var entries []cartEntry
	var missing []string
	for _, it := range ct.Items {
		p, err := products.GetByID(c.Request.Context(), it.ProductID)
		if err != nil {
			if apperr.IsNotFound(err) {
				missing = append(missing, it.ProductID)
				continue
			}
			return nil, nil, err
		}
		entries = append(entries, cartEntry{Product: *p, Quantity: it.Quantity})
	}
	return entries, missing, nil
}

func getCartHandler(users user.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := currentUser(c, users)
		if err != nil {
			respondError(c, err)
			return
		}
		entries, _, err := resolveCart(c, products, u.Cart)
		if err != nil {
			respondError(c, err)
			return
		}
		if entries == nil {
			entries = []cartEntry{}
		}
		total := decimal.Zero
		for _, e := range entries {
			total = total.Add(e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
		c.JSON(http.StatusOK, gin.H{"items": entries, "total": total})
	}
}

func addToCartHandler(users user.Repository, products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID string `json:"product_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := currentUser(c, users)
		if err != nil {
			respondError(c, err)
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}

		u.Cart = cart.Add(u.Cart, p.ID)
		if err := users.Save(c.Request.Context(), u); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u.Cart)
	}
}

func removeFromCartHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := currentUser(c, users)
		if err != nil {
			respondError(c, err)
			return
		}
		u.Cart = cart.Remove(u.Cart, c.Param("productId"))
		if err := users.Save(c.Request.Context(), u); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u.Cart)
	}
}

// checkoutSessionHandler prices the cart against the live catalog and asks
// the payment gateway for a checkout session.
func checkoutSessionHandler(users user.Repository, products product.Repository, gateway *payment.Client, currency string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := currentUser(c, users)
		if err != nil {
			respondError(c, err)
			return
		}
		if u.Cart.IsEmpty() {
			respondError(c, apperr.Validation("cart is empty", "cart"))
			return
		}
		entries, missing, err := resolveCart(c, products, u.Cart)
		if err != nil {
			respondError(c, err)
			return
		}
		if len(missing) > 0 {
			respondError(c, apperr.NotFound("product"))
			return
		}

		total := decimal.Zero
		for _, e := range entries {
			total = total.Add(e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity))))
		}
		session, err := gateway.CreateSession(c.Request.Context(), u.ID, total, currency)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

func createOrderHandler(orders *order.Service, users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := currentUser(c, users)
		if err != nil {
			respondError(c, err)
			return
		}
		o, err := orders.Checkout(c.Request.Context(), u)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	}
}

func listOrdersHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		out, err := orders.History(c.Request.Context(), actorID(c), limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

func getOrderHandler(orders *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.ForPurchaser(c.Request.Context(), c.Param("id"), actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// invoiceHandler streams the order's invoice to the response and to the
// invoice directory in one pass.
func invoiceHandler(orders *order.Service, invoiceDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := orders.ForPurchaser(c.Request.Context(), c.Param("id"), actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}

		name := invoice.FileName(o.ID)
		if err := os.MkdirAll(invoiceDir, 0o755); err != nil {
			respondError(c, apperr.Storage("create invoice dir", err))
			return
		}
		f, err := os.Create(filepath.Join(invoiceDir, name))
		if err != nil {
			respondError(c, apperr.Storage("create invoice file", err))
			return
		}
		defer f.Close()

		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", `inline; filename=`+name)
		c.Status(http.StatusOK)
		if err := invoice.WritePDF(io.MultiWriter(f, c.Writer), o); err != nil {
			// headers are gone; nothing left to do but log
			log.Printf("[invoice] streaming invoice for order %s: %v", o.ID, err)
		}
	}
}

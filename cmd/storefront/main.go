package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petrin/storefront/internal/config"
	"github.com/petrin/storefront/internal/database"
	"github.com/petrin/storefront/internal/httpx"
	"github.com/petrin/storefront/internal/order"
	"github.com/petrin/storefront/internal/payment"
	"github.com/petrin/storefront/internal/product"
	"github.com/petrin/storefront/internal/user"
)

func main() {
	cfg := config.Load()

	pool, err := database.Connect(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[storefront] database: %v", err)
	}
	defer pool.Close()

	users := user.NewPGRepo(pool)
	products := product.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)

	userSvc := user.NewService(users)
	orderSvc := order.NewService(orders, products, users)
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey)
	images := product.DiskImages{}

	r := gin.New()
	r.Use(httpx.RequestID(), httpx.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	r.POST("/signup", signupHandler(userSvc))
	r.POST("/login", loginHandler(userSvc, cfg.JWTSecret))
	r.POST("/password-reset", requestResetHandler(userSvc))
	r.POST("/password-reset/:token", resetPasswordHandler(userSvc))

	r.GET("/products", listProductsHandler(products, cfg.PageSize))
	r.GET("/products/:id", getProductHandler(products))

	auth := r.Group("/", httpx.Auth(cfg.JWTSecret))
	{
		auth.GET("/cart", getCartHandler(users, products))
		auth.POST("/cart", addToCartHandler(users, products))
		auth.DELETE("/cart/:productId", removeFromCartHandler(users))

		auth.POST("/checkout", checkoutSessionHandler(users, products, gateway, "usd"))
		auth.POST("/orders", createOrderHandler(orderSvc, users))
		auth.GET("/orders", listOrdersHandler(orderSvc))
		auth.GET("/orders/:id", getOrderHandler(orderSvc))
		auth.GET("/orders/:id/invoice", invoiceHandler(orderSvc, cfg.InvoiceDir))

		admin := auth.Group("/admin")
		admin.GET("/products", adminProductsHandler(products))
		admin.POST("/products", createProductHandler(products))
		admin.PUT("/products/:id", updateProductHandler(products, images))
		admin.DELETE("/products/:id", deleteProductHandler(products, images))
	}

	log.Printf("[storefront] listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

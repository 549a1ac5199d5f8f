package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/petrin/storefront/internal/apperr"
	"github.com/petrin/storefront/internal/product"
)

func listProductsHandler(products product.Repository, pageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := product.ParsePageNumber(c.Query("page"))
		out, err := products.List(c.Request.Context(), page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		if out.Items == nil {
			out.Items = []product.Product{}
		}
		c.JSON(http.StatusOK, out)
	}
}

func getProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// adminProductsHandler lists only the actor's own products.
func adminProductsHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := products.ListByOwner(c.Request.Context(), actorID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []product.Product{}
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func createProductHandler(products product.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := product.Validate(req.Title, req.Price, req.Description); err != nil {
			respondError(c, err)
			return
		}
		price, _ := decimal.NewFromString(req.Price)
		p := &product.Product{
			ID:          uuid.NewString(),
			Title:       req.Title,
			Description: req.Description,
			Price:       price,
			ImageURL:    req.ImageURL,
			UserID:      actorID(c),
		}
		if err := products.Create(c.Request.Context(), p); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func updateProductHandler(products product.Repository, images product.ImageRemover) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req product.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		// ownership is checked before any effect is applied
		if p.UserID != actorID(c) {
			respondError(c, apperr.Unauthorized("product belongs to another user"))
			return
		}

		if req.Title != "" {
			p.Title = req.Title
		}
		if req.Description != "" {
			p.Description = req.Description
		}
		if req.Price != "" {
			price, perr := decimal.NewFromString(req.Price)
			if perr != nil || !price.IsPositive() {
				respondError(c, apperr.Validation("invalid product fields", "price"))
				return
			}
			p.Price = price
		}
		if err := product.Validate(p.Title, p.Price.String(), p.Description); err != nil {
			respondError(c, err)
			return
		}

		oldImage := p.ImageURL
		if req.ImageURL != "" && req.ImageURL != oldImage {
			p.ImageURL = req.ImageURL
		}

		if err := products.Update(c.Request.Context(), p); err != nil {
			respondError(c, err)
			return
		}
		if oldImage != "" && oldImage != p.ImageURL {
			if err := images.Remove(oldImage); err != nil {
				log.Printf("[catalog] removing replaced image %s: %v", oldImage, err)
			}
		}
		c.JSON(http.StatusOK, p)
	}
}

func deleteProductHandler(products product.Repository, images product.ImageRemover) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if p.UserID != actorID(c) {
			respondError(c, apperr.Unauthorized("product belongs to another user"))
			return
		}

		ok, err := products.Delete(c.Request.Context(), p.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ok {
			respondError(c, apperr.NotFound("product"))
			return
		}
		if err := images.Remove(p.ImageURL); err != nil {
			log.Printf("[catalog] removing image of deleted product %s: %v", p.ID, err)
		}
		c.Status(http.StatusNoContent)
	}
}

package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/petrin/storefront/internal/apperr"
	"github.com/petrin/storefront/internal/httpx"
	"github.com/petrin/storefront/internal/user"
)

// respondError maps the error taxonomy onto HTTP statuses: not found 404,
// unauthorized 403, validation 422 with per-field identifiers, everything
// else a generic 500.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.KindUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "fields": apperr.FieldsOf(err)})
	default:
		log.Printf("[http] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func actorID(c *gin.Context) string {
	v, _ := c.Get(httpx.ActorKey)
	id, _ := v.(string)
	return id
}

// currentUser loads the authenticated actor's full record.
func currentUser(c *gin.Context, users user.Repository) (*user.User, error) {
	id := actorID(c)
	if id == "" {
		return nil, apperr.Unauthorized("no authenticated user")
	}
	return users.GetByID(c.Request.Context(), id)
}

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func signupHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name})
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loginHandler(users *user.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.Authenticate(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if apperr.IsUnauthorized(err) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, err)
			return
		}
		token, err := httpx.SignUserToken(jwtSecret, u.ID, 24*time.Hour)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user_id": u.ID})
	}
}

func requestResetHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		token, err := users.IssueResetToken(c.Request.Context(), req.Email, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		// the mail collaborator delivers this link; returned here in its place
		c.JSON(http.StatusOK, gin.H{"reset_url": "/password-reset/" + token})
	}
}

func resetPasswordHandler(users *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := users.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, time.Now()); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/petrin/storefront/internal/apperr"
)

// ResetTokenTTL is how long an issued password-reset token stays valid.
const ResetTokenTTL = time.Hour

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup creates a user with an empty cart.
func (s *Service) Signup(ctx context.Context, email, name, password string) (*User, error) {
	var fields []string
	if !strings.Contains(email, "@") {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(name) == "" {
		fields = append(fields, "name")
	}
	if len(password) < 6 {
		fields = append(fields, "password")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid signup fields", fields...)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, apperr.Storage("hash password", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials. Unknown email and wrong password both
// come back as the same unauthorized error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return u, nil
}

// IssueResetToken stores a fresh reset token on the user and returns it.
// Delivery of the token (mail) is the caller's collaborator.
func (s *Service) IssueResetToken(ctx context.Context, email string, now time.Time) (string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperr.Storage("generate reset token", err)
	}
	u.ResetToken = hex.EncodeToString(buf)
	u.ResetTokenExpiresAt = now.Add(ResetTokenTTL)
	if err := s.repo.Save(ctx, u); err != nil {
		return "", err
	}
	return u.ResetToken, nil
}

// ResetPassword consumes a valid, unexpired token and replaces the user's
// credentials. The token is cleared in the same write.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error {
	if token == "" {
		return apperr.Unauthorized("invalid reset token")
	}
	if len(newPassword) < 6 {
		return apperr.Validation("invalid password", "password")
	}
	u, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.Unauthorized("invalid reset token")
		}
		return err
	}
	if u.ResetTokenExpiresAt.IsZero() || now.After(u.ResetTokenExpiresAt) {
		return apperr.Unauthorized("reset token expired")
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperr.Storage("hash password", err)
	}
	u.PasswordHash = hash
	u.ResetToken = ""
	u.ResetTokenExpiresAt = time.Time{}
	return s.repo.Save(ctx, u)
}

// internal/service/auth/admin.go
package auth

import (
	"context"
	"fmt"

	"gymease-service/internal/domain/auth"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the initial staff account if it is missing (called on startup).
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("admin username and password must be provided")
	}
	if len(password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("admin account already exists, skipping creation", zap.String("username", username))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := &auth.User{
		Username:     username,
		Email:        email,
		FirstName:    "Admin",
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateStaff(ctx, u); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info("admin account created",
		zap.String("username", username),
		zap.Int64("user_id", u.ID),
	)
	return nil
}

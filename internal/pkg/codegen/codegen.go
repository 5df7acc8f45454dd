// Package codegen builds the human-facing record codes (MBR1A2B3C, PROMO..., TRX...).
package codegen

import (
	"errors"
	"fmt"
	"strings"

	xerrors "gymease-service/internal/pkg/errors"

	"github.com/google/uuid"
)

const (
	PrefixMember      = "MBR"
	PrefixPromo       = "PROMO"
	PrefixTrainer     = "PT"
	PrefixTransaction = "TRX"

	maxAttempts = 5
)

// New returns prefix followed by n uppercase hex characters taken from a random UUID.
func New(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(hex) {
		n = len(hex)
	}
	return prefix + strings.ToUpper(hex[:n])
}

// Insert generates a code and calls insert with it, drawing a fresh code
// whenever insert reports ErrConflict.
func Insert(prefix string, n int, insert func(code string) error) (string, error) {
	var err error
	for range maxAttempts {
		code := New(prefix, n)
		err = insert(code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, xerrors.ErrConflict) {
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique %s code: %w", prefix, err)
}

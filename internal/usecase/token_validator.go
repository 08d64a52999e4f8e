package usecase

import (
	"github.com/google/uuid"

	"shop-api/internal/domain/user"
)

// TokenValidator is the narrow surface the auth middleware needs.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, user.Role, error)
}

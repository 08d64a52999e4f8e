//go:build unit || integration

package builder

import (
	"shop-api/internal/domain/user"

	"github.com/brianvoe/gofakeit/v7"
)

type UserBuilder struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        gofakeit.Email(),
		Name:         gofakeit.Name(),
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         "user",
	}
}

func (b *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(b)
	return b
}

func (b *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(b.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, b.Name, b.PasswordHash, role), nil
}

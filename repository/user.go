package repository

import (
	"context"

	"github.com/stockroom/backend/domain"
)

// UserFilter narrows user listings. Query matches email or name.
type UserFilter struct {
	Query  string
	Limit  int
	Offset int
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

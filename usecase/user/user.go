package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/patch"
	"github.com/stockroom/backend/repository"
)

// Service covers the administrative user operations. Self-service signup and
// login live in the auth service.
type Service struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, logger: logger}
}

// Patch is a partial profile update. Name is nullable: an explicit null
// clears the display name.
type Patch struct {
	Email patch.Field[string] `json:"email"`
	Name  patch.Field[string] `json:"name"`
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	return s.users.List(ctx, filter)
}

// Update applies a partial profile change.
func (s *Service) Update(ctx context.Context, id string, p Patch) (*domain.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Email.Present {
		email, ok := p.Email.Get()
		email = strings.ToLower(strings.TrimSpace(email))
		if !ok || email == "" || !strings.Contains(email, "@") {
			return nil, domain.NewError(domain.ErrCodeValidation, "a valid email is required")
		}
		existing.Email = email
	}
	if p.Name.Present {
		if name, ok := p.Name.Get(); ok {
			name = strings.TrimSpace(name)
			existing.Name = &name
		} else {
			existing.Name = nil
		}
	}

	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// SetRole grants or revokes the admin role.
func (s *Service) SetRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewError(domain.ErrCodeValidation, "invalid role")
	}

	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Role = role
	if err := s.users.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

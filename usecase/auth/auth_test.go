package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/password"
	"github.com/stockroom/backend/repository"
	userUC "github.com/stockroom/backend/usecase/user"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context, repository.UserFilter) ([]domain.User, int, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.NewError(domain.ErrCodeConflict, "email already registered")
		}
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *fakeSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *fakeSessionRepo) Save(_ context.Context, s *domain.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func newService(users *fakeUserRepo, sessions *fakeSessionRepo) *Service {
	return New(users, sessions, TokenConfig{
		Secret: []byte("test-signing-secret"),
		Issuer: "stockroom-test",
		TTL:    time.Hour,
	}, nil)
}

func seedUser(t *testing.T, users *fakeUserRepo, email, pass string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := password.Hash(pass, nil)
	require.NoError(t, err)
	u := &domain.User{
		ID:           "user-" + email,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	users.users[u.ID] = u
	return u
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	svc := newService(users, sessions)
	ctx := context.Background()

	created, token, err := svc.Register(ctx, RegisterInput{
		Email:    "Jamie@Example.COM",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.Equal(t, "jamie@example.com", created.Email)
	require.Equal(t, domain.RoleUser, created.Role)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.UserID)
	require.Equal(t, domain.RoleUser, claims.Role)
	require.Contains(t, sessions.sessions, claims.ID)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "long-enough"}},
		{"malformed email", RegisterInput{Email: "not-an-address", Password: "long-enough"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(newFakeUserRepo(), newFakeSessionRepo())
			_, _, err := svc.Register(context.Background(), tt.input)
			require.True(t, domain.IsDomainError(err, domain.ErrCodeValidation))
		})
	}
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	seedUser(t, users, "jamie@example.com", "correct-horse", domain.RoleUser)
	svc := newService(users, sessions)
	ctx := context.Background()

	_, _, wrongPass := svc.Login(ctx, Credentials{Email: "jamie@example.com", Password: "wrong"})
	require.True(t, domain.IsDomainError(wrongPass, domain.ErrCodeUnauthenticated))

	_, _, unknown := svc.Login(ctx, Credentials{Email: "nobody@example.com", Password: "wrong"})
	require.True(t, domain.IsDomainError(unknown, domain.ErrCodeUnauthenticated))

	require.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLogoutRevokesLiveToken(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	seedUser(t, users, "jamie@example.com", "correct-horse", domain.RoleUser)
	svc := newService(users, sessions)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, Credentials{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))

	_, err = svc.Verify(ctx, token)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthenticated))
}

func TestRoleChangeAppliesToLiveSessions(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	admin := seedUser(t, users, "admin@example.com", "correct-horse", domain.RoleAdmin)
	svc := newService(users, sessions)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, Credentials{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, role, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)

	_, err = userUC.New(users, nil).SetRole(ctx, admin.ID, domain.RoleUser)
	require.NoError(t, err)

	// The demotion must bite on the very next request with the old token.
	_, _, role, err = svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, role)
}

func TestVerifyRejectsDeletedAccount(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	u := seedUser(t, users, "jamie@example.com", "correct-horse", domain.RoleUser)
	svc := newService(users, sessions)
	ctx := context.Background()

	_, token, err := svc.Login(ctx, Credentials{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	delete(users.users, u.ID)

	_, err = svc.Verify(ctx, token)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthenticated))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	users, sessions := newFakeUserRepo(), newFakeSessionRepo()
	seedUser(t, users, "jamie@example.com", "correct-horse", domain.RoleUser)
	issuer := New(users, sessions, TokenConfig{Secret: []byte("other-secret"), TTL: time.Hour}, nil)
	verifier := newService(users, sessions)
	ctx := context.Background()

	_, token, err := issuer.Login(ctx, Credentials{Email: "jamie@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = verifier.Verify(ctx, token)
	require.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthenticated))
}

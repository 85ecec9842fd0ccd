package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/domain"
	"github.com/stockroom/backend/pkg/password"
	"github.com/stockroom/backend/repository"
)

// TokenConfig carries the signing material for issued tokens.
type TokenConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Claims is the JWT payload. The jti doubles as the Redis session key so a
// logout revokes the token before it expires.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Service implements registration, login and session management.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   TokenConfig
	logger   *zap.Logger
}

func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens TokenConfig,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens.TTL <= 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput carries a self-service signup.
type RegisterInput struct {
	Email    string  `json:"email"`
	Name     *string `json:"name"`
	Password string  `json:"password"`
}

// Credentials is a login attempt.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new USER-role account and immediately logs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, "", domain.NewError(domain.ErrCodeValidation, "a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, "", domain.NewError(domain.ErrCodeValidation, "password must be at least 8 characters")
	}

	hash, err := password.Hash(input.Password, nil)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "failed to hash password", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         input.Name,
		Role:         domain.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(ctx, created)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, "", domain.NewError(domain.ErrCodeUnauthenticated, "invalid email or password")
		}
		return nil, "", err
	}

	ok, err := password.Verify(creds.Password, user.PasswordHash)
	if err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeInternal, "failed to verify password", err)
	}
	if !ok {
		return nil, "", domain.NewError(domain.ErrCodeUnauthenticated, "invalid email or password")
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me resolves the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Logout revokes the session behind the given token id.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Verify parses and validates a raw token, then checks the session is still
// alive in Redis. A revoked or expired session fails even when the signature
// is valid.
func (s *Service) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.tokens.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if session.IsExpired(time.Now()) || session.UserID != claims.UserID {
		return nil, domain.ErrUnauthenticated
	}

	// The users table is authoritative for role: a promotion or demotion
	// applies to live sessions on their next request, not when the token
	// expires. A deleted account fails verification outright.
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	claims.Role = user.Role
	return claims, nil
}

// VerifyToken adapts Verify for transport middleware that only needs the
// caller's identity.
func (s *Service) VerifyToken(ctx context.Context, rawToken string) (userID, sessionID string, role domain.Role, err error) {
	claims, err := s.Verify(ctx, rawToken)
	if err != nil {
		return "", "", "", err
	}
	return claims.UserID, claims.ID, claims.Role, nil
}

func (s *Service) issue(ctx context.Context, user *domain.User) (string, error) {
	now := time.Now()
	expires := now.Add(s.tokens.TTL)
	jti := uuid.NewString()

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.tokens.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokens.Secret)
	if err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to sign token", err)
	}

	session := &domain.Session{
		ID:        jti,
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: expires,
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", domain.WrapError(domain.ErrCodeInternal, "failed to persist session", err)
	}

	return signed, nil
}

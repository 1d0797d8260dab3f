package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/khanhtoandng/me-sub001/internal/models"
	"github.com/khanhtoandng/me-sub001/internal/password"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("invalid role")
)

// Service encapsulates user-related business logic
type Service struct {
	repo       UserRepository
	bcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

// NormalizeUsername is the single lookup rule: trimmed and lower-cased.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// missHash is compared against on unknown usernames so a miss costs one
// bcrypt round like a hit.
func (s *Service) missHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = password.Hash("unknown-user-placeholder", s.bcryptCost)
	})
	return s.dummyHash
}

func NewService(r UserRepository, bcryptCost int) *Service {
	return &Service{repo: r, bcryptCost: bcryptCost}
}

// Authenticate checks a username/password pair and returns the user.
func (s *Service) Authenticate(ctx context.Context, username, plain string) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" || plain == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		password.Verify(s.missHash(), plain)
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(u.PasswordHash, plain) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// EnsureUser creates the account or resets its password, email and role.
func (s *Service) EnsureUser(ctx context.Context, username, email, plain string, role models.Role) (*models.User, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	hash, err := password.Hash(plain, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.repo.UpsertByUsername(ctx, &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         role,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

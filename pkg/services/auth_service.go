package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// AuthService performs the console's demo-grade login: a plaintext credential
// comparison against the in-memory user list. It is deliberately not a
// security boundary — no hashing, no lockout, no token issuance. Failures are
// a single generic error so callers cannot distinguish an unknown identifier
// from a wrong password.
type AuthService interface {
	// Authenticate matches identifier (username or email) and password
	// against the stored users and returns the matching user.
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)

	// UserByID resolves a session's user id back to a user.
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(st *store.Store, logger *zap.Logger) AuthService {
	return &authService{
		store:  st,
		logger: logger.Named("auth-service"),
	}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}
	user, err := s.store.UserByIdentifier(identifier)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Password != password {
		return nil, apperrors.ErrInvalidCredentials
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return user, nil
}

func (s *authService) UserByID(ctx context.Context, id string) (*models.User, error) {
	return s.store.User(id)
}

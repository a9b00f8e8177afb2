package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// UserService provides CRUD over users and roles plus the administrator
// safety policies: the console must never end up without an administrator,
// and system roles are immutable.
type UserService interface {
	// ListUsers returns all users.
	ListUsers(ctx context.Context) []models.User

	// GetUser returns a single user by ID.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// SaveUser upserts a user. New users (empty ID) need a password; on
	// update, an empty password keeps the stored one. A role change that
	// would leave zero administrators fails with ErrLastAdmin.
	SaveUser(ctx context.Context, user *models.User) (*models.User, error)

	// DeleteUser removes a user unless that would leave zero administrators.
	DeleteUser(ctx context.Context, id string) error

	// ListRoles returns all roles.
	ListRoles(ctx context.Context) []models.UserRole

	// GetRole returns a single role by ID.
	GetRole(ctx context.Context, id string) (*models.UserRole, error)

	// SaveRole upserts a role. System roles reject any edit.
	SaveRole(ctx context.Context, role *models.UserRole) (*models.UserRole, error)

	// DeleteRole removes a role unless it is a system role or still in use.
	DeleteRole(ctx context.Context, id string) error

	// TogglePermission flips one permission on a role.
	TogglePermission(ctx context.Context, roleID, permission string) (*models.UserRole, error)
}

type userService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, logger *zap.Logger) UserService {
	return &userService{
		store:  st,
		logger: logger.Named("user-service"),
	}
}

var _ UserService = (*userService)(nil)

func (s *userService) ListUsers(ctx context.Context) []models.User {
	return s.store.Users()
}

func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.User(id)
}

func (s *userService) SaveUser(ctx context.Context, user *models.User) (*models.User, error) {
	if strings.TrimSpace(user.Username) == "" ||
		strings.TrimSpace(user.Email) == "" ||
		strings.TrimSpace(user.RoleID) == "" {
		return nil, fmt.Errorf("%w: username, email and role are required", apperrors.ErrValidation)
	}
	if _, err := s.store.Role(user.RoleID); err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, user.RoleID)
	}

	if user.ID == "" {
		if user.Password == "" {
			return nil, fmt.Errorf("%w: new users need a password", apperrors.ErrValidation)
		}
		user.ID = uuid.NewString()
		user.CreatedAt = now()
		s.store.InsertUser(user)
		s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
		return user, nil
	}

	existing, err := s.store.User(user.ID)
	if err != nil {
		return nil, err
	}
	if user.Password == "" {
		user.Password = existing.Password
	}
	user.CreatedAt = existing.CreatedAt

	if s.adminCountAfter(func(u models.User) (models.User, bool) {
		if u.ID == user.ID {
			return *user, true
		}
		return u, true
	}) == 0 {
		return nil, apperrors.ErrLastAdmin
	}

	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.store.User(id); err != nil {
		return err
	}
	if s.adminCountAfter(func(u models.User) (models.User, bool) {
		if u.ID == id {
			return u, false
		}
		return u, true
	}) == 0 {
		return apperrors.ErrLastAdmin
	}
	return s.store.DeleteUser(id)
}

// adminCountAfter counts administrators as they would stand after applying
// transform to every user (keep=false drops the user). A user administers
// when their role carries sys_admin or their username is the fixed "admin"
// account.
func (s *userService) adminCountAfter(transform func(models.User) (models.User, bool)) int {
	roles := make(map[string]models.UserRole)
	for _, r := range s.store.Roles() {
		roles[r.ID] = r
	}
	count := 0
	for _, u := range s.store.Users() {
		after, keep := transform(u)
		if !keep {
			continue
		}
		if after.Username == "admin" {
			count++
			continue
		}
		if role, ok := roles[after.RoleID]; ok && role.HasPermission(models.PermSysAdmin) {
			count++
		}
	}
	return count
}

func (s *userService) ListRoles(ctx context.Context) []models.UserRole {
	return s.store.Roles()
}

func (s *userService) GetRole(ctx context.Context, id string) (*models.UserRole, error) {
	return s.store.Role(id)
}

func (s *userService) SaveRole(ctx context.Context, role *models.UserRole) (*models.UserRole, error) {
	if strings.TrimSpace(role.Name) == "" {
		return nil, fmt.Errorf("%w: role name is required", apperrors.ErrValidation)
	}
	for _, p := range role.Permissions {
		if !models.IsValidPermission(p) {
			return nil, fmt.Errorf("%w: unknown permission %q", apperrors.ErrValidation, p)
		}
	}

	if role.ID == "" {
		role.ID = uuid.NewString()
		role.IsSystem = false
		s.store.InsertRole(role)
		s.logger.Info("role created", zap.String("role_id", role.ID), zap.String("name", role.Name))
		return role, nil
	}

	existing, err := s.store.Role(role.ID)
	if err != nil {
		return nil, err
	}
	if existing.IsSystem {
		return nil, apperrors.ErrSystemRole
	}
	role.IsSystem = false
	if err := s.store.UpdateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *userService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.store.Role(id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return apperrors.ErrSystemRole
	}
	for _, u := range s.store.Users() {
		if u.RoleID == id {
			return fmt.Errorf("%w: role %q is still assigned to %q", apperrors.ErrConflict, role.Name, u.Username)
		}
	}
	return s.store.DeleteRole(id)
}

func (s *userService) TogglePermission(ctx context.Context, roleID, permission string) (*models.UserRole, error) {
	if !models.IsValidPermission(permission) {
		return nil, fmt.Errorf("%w: unknown permission %q", apperrors.ErrValidation, permission)
	}
	role, err := s.store.Role(roleID)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, apperrors.ErrSystemRole
	}

	removed := false
	for i, p := range role.Permissions {
		if p == permission {
			role.Permissions = append(role.Permissions[:i], role.Permissions[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		role.Permissions = append(role.Permissions, permission)
	}
	if err := s.store.UpdateRole(role); err != nil {
		return nil, err
	}
	return role, nil
}

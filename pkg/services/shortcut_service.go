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

// ShortcutService provides CRUD over home-screen shortcuts. Besides the
// variant-shape check on the config, saving verifies that whatever the
// shortcut points at actually exists.
type ShortcutService interface {
	// ListShortcuts returns all shortcuts.
	ListShortcuts(ctx context.Context) []models.Shortcut

	// GetShortcut returns a single shortcut by ID.
	GetShortcut(ctx context.Context, id string) (*models.Shortcut, error)

	// SaveShortcut upserts a shortcut.
	SaveShortcut(ctx context.Context, sc *models.Shortcut) (*models.Shortcut, error)

	// DeleteShortcut removes a shortcut by ID.
	DeleteShortcut(ctx context.Context, id string) error
}

type shortcutService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewShortcutService creates a new ShortcutService.
func NewShortcutService(st *store.Store, logger *zap.Logger) ShortcutService {
	return &shortcutService{
		store:  st,
		logger: logger.Named("shortcut-service"),
	}
}

var _ ShortcutService = (*shortcutService)(nil)

func (s *shortcutService) ListShortcuts(ctx context.Context) []models.Shortcut {
	return s.store.Shortcuts()
}

func (s *shortcutService) GetShortcut(ctx context.Context, id string) (*models.Shortcut, error) {
	return s.store.ShortcutByID(id)
}

func (s *shortcutService) SaveShortcut(ctx context.Context, sc *models.Shortcut) (*models.Shortcut, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return nil, fmt.Errorf("%w: shortcut name is required", apperrors.ErrValidation)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.checkReferences(sc); err != nil {
		return nil, err
	}

	if sc.ID == "" {
		sc.ID = uuid.NewString()
		s.store.InsertShortcut(sc)
		s.logger.Info("shortcut created",
			zap.String("shortcut_id", sc.ID),
			zap.String("type", sc.Type))
		return sc, nil
	}
	if err := s.store.UpdateShortcut(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *shortcutService) checkReferences(sc *models.Shortcut) error {
	if ref := sc.TableRef(); ref != "" {
		if _, err := s.store.TableSchema(ref); err != nil {
			return fmt.Errorf("%w: shortcut references unknown table %q", apperrors.ErrValidation, ref)
		}
	}
	if ref := sc.DashboardRef(); ref != "" {
		if _, err := s.store.Dashboard(ref); err != nil {
			return fmt.Errorf("%w: shortcut references unknown dashboard %q", apperrors.ErrValidation, ref)
		}
	}
	if sc.Type == models.ShortcutMapPreset {
		for _, layer := range sc.Config.MapPreset.Layers {
			if _, err := s.store.TableSchema(layer); err != nil {
				return fmt.Errorf("%w: map preset references unknown layer %q", apperrors.ErrValidation, layer)
			}
		}
	}
	return nil
}

func (s *shortcutService) DeleteShortcut(ctx context.Context, id string) error {
	return s.store.DeleteShortcut(id)
}

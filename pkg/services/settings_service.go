package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/i18n"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/store"
)

// SettingsService manages the map tile layer catalog and the console-wide UI
// preferences.
type SettingsService interface {
	// ListMapLayers returns all base tile layers.
	ListMapLayers(ctx context.Context) []models.MapTileLayer

	// SaveMapLayer upserts a tile layer. Marking a layer default clears the
	// flag from the others.
	SaveMapLayer(ctx context.Context, layer *models.MapTileLayer) (*models.MapTileLayer, error)

	// DeleteMapLayer removes a tile layer. The last layer cannot be removed.
	DeleteMapLayer(ctx context.Context, id string) error

	// Preferences returns the current UI preferences.
	Preferences(ctx context.Context) models.Preferences

	// SavePreferences validates and stores the UI preferences.
	SavePreferences(ctx context.Context, prefs models.Preferences) (models.Preferences, error)
}

type settingsService struct {
	store      *store.Store
	translator *i18n.Translator
	logger     *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(st *store.Store, translator *i18n.Translator, logger *zap.Logger) SettingsService {
	return &settingsService{
		store:      st,
		translator: translator,
		logger:     logger.Named("settings-service"),
	}
}

var _ SettingsService = (*settingsService)(nil)

func (s *settingsService) ListMapLayers(ctx context.Context) []models.MapTileLayer {
	return s.store.MapLayers()
}

func (s *settingsService) SaveMapLayer(ctx context.Context, layer *models.MapTileLayer) (*models.MapTileLayer, error) {
	if strings.TrimSpace(layer.Name) == "" || strings.TrimSpace(layer.URL) == "" {
		return nil, fmt.Errorf("%w: layer name and URL are required", apperrors.ErrValidation)
	}

	if layer.ID == "" {
		layer.ID = uuid.NewString()
		s.store.InsertMapLayer(layer)
		s.logger.Info("map layer created", zap.String("layer_id", layer.ID))
	} else if err := s.store.UpdateMapLayer(layer); err != nil {
		return nil, err
	}

	if layer.IsDefault {
		for _, other := range s.store.MapLayers() {
			if other.ID != layer.ID && other.IsDefault {
				other.IsDefault = false
				if err := s.store.UpdateMapLayer(&other); err != nil {
					return nil, err
				}
			}
		}
	}
	return layer, nil
}

func (s *settingsService) DeleteMapLayer(ctx context.Context, id string) error {
	return s.store.DeleteMapLayer(id)
}

func (s *settingsService) Preferences(ctx context.Context) models.Preferences {
	return s.store.Preferences()
}

func (s *settingsService) SavePreferences(ctx context.Context, prefs models.Preferences) (models.Preferences, error) {
	if !s.translator.HasLanguage(prefs.Language) {
		return models.Preferences{}, fmt.Errorf("%w: unknown language %q", apperrors.ErrValidation, prefs.Language)
	}
	if prefs.Theme != models.ThemeLight && prefs.Theme != models.ThemeDark {
		return models.Preferences{}, fmt.Errorf("%w: unknown theme %q", apperrors.ErrValidation, prefs.Theme)
	}
	s.store.SetPreferences(prefs)
	s.logger.Info("preferences updated",
		zap.String("language", prefs.Language),
		zap.String("theme", prefs.Theme))
	return prefs, nil
}

package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/config"
	"github.com/geonexus/console/pkg/handlers"
	"github.com/geonexus/console/pkg/i18n"
	"github.com/geonexus/console/pkg/middleware"
	"github.com/geonexus/console/pkg/models"
	"github.com/geonexus/console/pkg/services"
	"github.com/geonexus/console/pkg/store"
	"github.com/geonexus/console/pkg/tasks"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("default_language", cfg.Defaults.Language),
		zap.String("default_theme", cfg.Defaults.Theme),
		zap.Int("backup_duration_s", cfg.Backup.DurationSeconds))

	translator, err := i18n.Load()
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}
	if !translator.HasLanguage(cfg.Defaults.Language) {
		logger.Fatal("Default language has no translation table",
			zap.String("language", cfg.Defaults.Language))
	}

	st := store.NewSeeded()
	st.SetPreferences(models.Preferences{
		Language: cfg.Defaults.Language,
		Theme:    cfg.Defaults.Theme,
	})

	sessions := middleware.NewSessionManager(cfg, logger)
	scheduler := tasks.NewScheduler(logger)

	authService := services.NewAuthService(st, logger)
	schemaService := services.NewSchemaService(st, logger)
	recordService := services.NewRecordService(st, logger)
	dashboardService := services.NewDashboardService(st, logger)
	calendarService := services.NewCalendarService(st, logger)
	userService := services.NewUserService(st, logger)
	shortcutService := services.NewShortcutService(st, logger)
	settingsService := services.NewSettingsService(st, translator, logger)
	exportService := services.NewExportService(st, logger)
	adminService := services.NewAdminService(st, scheduler, cfg.BackupDuration(), logger)

	mux := http.NewServeMux()
	requireSession := handlers.SessionMiddleware(sessions.Require)
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(authService, sessions, logger).RegisterRoutes(mux, requireSession)
	handlers.NewSchemaHandler(schemaService, recordService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewCalendarHandler(calendarService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewUserHandler(userService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewShortcutHandler(shortcutService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewSettingsHandler(settingsService, translator, logger).RegisterRoutes(mux, requireSession)
	handlers.NewExportHandler(exportService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewAdminHandler(adminService, logger).RegisterRoutes(mux, requireSession)
	handlers.NewDiffHandler(logger).RegisterRoutes(mux, requireSession)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting geonexus-console",
			zap.String("addr", server.Addr),
			zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
	scheduler.Stop()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

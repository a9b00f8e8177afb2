package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/geonexus/console/pkg/apperrors"
	"github.com/geonexus/console/pkg/store"
	"github.com/geonexus/console/pkg/tasks"
)

// Backup states.
const (
	BackupIdle      = "idle"
	BackupRunning   = "running"
	BackupCompleted = "completed"
)

const backupTaskName = "backup"

// BackupStatus describes the simulated backup job.
type BackupStatus struct {
	State       string     `json:"state"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableUsage is the per-table slice of the usage stats.
type TableUsage struct {
	TableID string `json:"table_id"`
	Name    string `json:"name"`
	Fields  int    `json:"fields"`
	Records int    `json:"records"`
}

// UsageStats aggregates the store's collection sizes for the admin overview.
// StorageKB is a rough simulated figure, not a real measurement.
type UsageStats struct {
	Tables     int          `json:"tables"`
	Fields     int          `json:"fields"`
	Records    int          `json:"records"`
	Users      int          `json:"users"`
	Roles      int          `json:"roles"`
	Dashboards int          `json:"dashboards"`
	Calendars  int          `json:"calendars"`
	Shortcuts  int          `json:"shortcuts"`
	StorageKB  int          `json:"storage_kb"`
	PerTable   []TableUsage `json:"per_table"`
}

// AdminService runs the simulated backup job and reports usage stats.
type AdminService interface {
	// StartBackup kicks off a simulated backup. A second start while one is
	// running fails with ErrConflict.
	StartBackup(ctx context.Context) (*BackupStatus, error)

	// BackupStatus returns the current backup state.
	BackupStatus(ctx context.Context) *BackupStatus

	// Stats returns collection sizes for the admin overview.
	Stats(ctx context.Context) *UsageStats
}

type adminService struct {
	store     *store.Store
	scheduler *tasks.Scheduler
	duration  time.Duration
	logger    *zap.Logger

	mu     sync.Mutex
	status BackupStatus
}

// NewAdminService creates a new AdminService. duration is how long the
// simulated backup takes.
func NewAdminService(st *store.Store, scheduler *tasks.Scheduler, duration time.Duration, logger *zap.Logger) AdminService {
	return &adminService{
		store:     st,
		scheduler: scheduler,
		duration:  duration,
		logger:    logger.Named("admin-service"),
		status:    BackupStatus{State: BackupIdle},
	}
}

var _ AdminService = (*adminService)(nil)

func (s *adminService) StartBackup(ctx context.Context) (*BackupStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.State == BackupRunning {
		return nil, apperrors.ErrConflict
	}

	started := now()
	s.status = BackupStatus{State: BackupRunning, StartedAt: &started}
	s.logger.Info("backup started", zap.Duration("duration", s.duration))

	s.scheduler.Schedule(context.WithoutCancel(ctx), backupTaskName, s.duration, func() {
		completed := now()
		s.mu.Lock()
		s.status.State = BackupCompleted
		s.status.CompletedAt = &completed
		s.mu.Unlock()
		s.logger.Info("backup completed")
	})

	st := s.status
	return &st, nil
}

func (s *adminService) BackupStatus(ctx context.Context) *BackupStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	return &st
}

func (s *adminService) Stats(ctx context.Context) *UsageStats {
	stats := &UsageStats{
		Users:      len(s.store.Users()),
		Roles:      len(s.store.Roles()),
		Dashboards: len(s.store.Dashboards()),
		Calendars:  len(s.store.Calendars()),
		Shortcuts:  len(s.store.Shortcuts()),
	}
	for _, sc := range s.store.TableSchemas() {
		records := s.store.DataRecords(sc.ID)
		stats.Tables++
		stats.Fields += len(sc.Fields)
		stats.Records += len(records)
		stats.PerTable = append(stats.PerTable, TableUsage{
			TableID: sc.ID,
			Name:    sc.Name,
			Fields:  len(sc.Fields),
			Records: len(records),
		})
	}
	// Crude size model: 4 KB per record, 2 KB per schema.
	stats.StorageKB = stats.Records*4 + stats.Tables*2
	return stats
}

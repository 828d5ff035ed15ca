package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// upcomingWindowDays is the dashboard's look-ahead for scheduled maintenance.
const upcomingWindowDays = 30

// DashboardService aggregates read-only statistics. Any live session may
// read it.
type DashboardService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *sessions.Manager
	clock    timex.Clock
	logger   logging.Logger
}

func NewDashboardService(db *sql.DB, repos repomanager.RepositoryManager, sm *sessions.Manager,
	clock timex.Clock, logger logging.Logger) *DashboardService {
	return &DashboardService{db: db, repos: repos, sessions: sm, clock: clock, logger: logger}
}

// Summary is the dashboard payload: facility counters by status plus the
// scheduled events of the next thirty days.
type Summary struct {
	TotalFacilities     int                     `json:"total_facilities"`
	ActiveFacilities    int                     `json:"active_facilities"`
	MaintenanceRequired int                     `json:"maintenance_required"`
	InactiveFacilities  int                     `json:"inactive_facilities"`
	UpcomingMaintenance []*models.CalendarEvent `json:"upcoming_maintenance"`
}

func (s *DashboardService) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	if _, err := resolveSession(s.sessions, sessionID, ""); err != nil {
		return nil, err
	}

	facilities, err := s.repos.Facilities(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing facilities: %w", err)
	}

	summary := &Summary{TotalFacilities: len(facilities)}
	for _, f := range facilities {
		switch f.Status {
		case models.FacilityStatusActive:
			summary.ActiveFacilities++
		case models.FacilityStatusMaintenanceRequired:
			summary.MaintenanceRequired++
		case models.FacilityStatusInactive:
			summary.InactiveFacilities++
		}
	}

	events, err := s.repos.Events(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	now := s.clock.Now()
	horizon := now.AddDate(0, 0, upcomingWindowDays)

	upcoming := make([]*models.CalendarEvent, 0)
	for _, e := range events {
		if e.Status != models.EventStatusScheduled {
			continue
		}
		if e.Date.Before(now) || e.Date.After(horizon) {
			continue
		}
		upcoming = append(upcoming, e)
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	summary.UpcomingMaintenance = upcoming

	return summary, nil
}

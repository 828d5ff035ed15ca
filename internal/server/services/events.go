package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
	"github.com/gmpi-project/gmpi/internal/timex"
)

// CalendarService owns the maintenance calendar. Reads require the read
// permission, mutations require manage_calendar.
type CalendarService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *sessions.Manager
	clock    timex.Clock
	logger   logging.Logger
}

func NewCalendarService(db *sql.DB, repos repomanager.RepositoryManager, sm *sessions.Manager,
	clock timex.Clock, logger logging.Logger) *CalendarService {
	return &CalendarService{db: db, repos: repos, sessions: sm, clock: clock, logger: logger}
}

// CreateEventRequest carries the fields for a new calendar event. Title,
// Date and Facility are required; the rest default to a 09:00 medium-
// priority maintenance slot.
type CreateEventRequest struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Facility    string
	Type        string
	AssignedTo  string
	Priority    models.EventPriority
}

func (s *CalendarService) Create(ctx context.Context, sessionID string, req CreateEventRequest) (*models.CalendarEvent, error) {
	session, err := resolveSession(s.sessions, sessionID, models.PermissionManageCalendar)
	if err != nil {
		return nil, err
	}

	if req.Title == "" || req.Facility == "" || req.Date.IsZero() {
		return nil, fmt.Errorf("title, date and facility are required: %w", common.ErrValidation)
	}

	if req.Time == "" {
		req.Time = "09:00"
	}
	if req.Type == "" {
		req.Type = "maintenance"
	}
	if req.Priority == "" {
		req.Priority = models.EventPriorityMedium
	}

	now := s.clock.Now()
	event := &models.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		Facility:    req.Facility,
		Type:        req.Type,
		Status:      models.EventStatusScheduled,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		CreatedBy:   session.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.repos.Events(s.db).Create(ctx, event); err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	s.logger.Info(ctx, "event created", "event", event.ID, "facility", event.Facility)
	return event, nil
}

// EventFilter narrows List results. Zero values mean "no constraint";
// Month and Year only apply together. Facility matches as a
// case-insensitive substring.
type EventFilter struct {
	Month    int
	Year     int
	Facility string
	Status   models.EventStatus
}

func (f EventFilter) matches(e *models.CalendarEvent) bool {
	if f.Month != 0 && f.Year != 0 {
		if int(e.Date.Month()) != f.Month || e.Date.Year() != f.Year {
			return false
		}
	}
	if f.Facility != "" {
		if !strings.Contains(strings.ToLower(e.Facility), strings.ToLower(f.Facility)) {
			return false
		}
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

func (s *CalendarService) List(ctx context.Context, sessionID string, filter EventFilter) ([]*models.CalendarEvent, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionRead); err != nil {
		return nil, err
	}

	all, err := s.repos.Events(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	result := make([]*models.CalendarEvent, 0, len(all))
	for _, e := range all {
		if filter.matches(e) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// EventUpdate is the allow-list patch for Update. Nil fields are left
// untouched.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Time        *string
	Facility    *string
	AssignedTo  *string
	Priority    *models.EventPriority
	Status      *models.EventStatus
}

func (s *CalendarService) Update(ctx context.Context, sessionID, eventID string, upd EventUpdate) (*models.CalendarEvent, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageCalendar); err != nil {
		return nil, err
	}

	repo := s.repos.Events(s.db)

	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.Date != nil {
		event.Date = *upd.Date
	}
	if upd.Time != nil {
		event.Time = *upd.Time
	}
	if upd.Facility != nil {
		event.Facility = *upd.Facility
	}
	if upd.AssignedTo != nil {
		event.AssignedTo = *upd.AssignedTo
	}
	if upd.Priority != nil {
		event.Priority = *upd.Priority
	}
	if upd.Status != nil {
		event.Status = *upd.Status
	}
	event.UpdatedAt = s.clock.Now()

	if err := repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event, nil
}

func (s *CalendarService) Delete(ctx context.Context, sessionID, eventID string) error {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageCalendar); err != nil {
		return err
	}

	if err := s.repos.Events(s.db).Delete(ctx, eventID); err != nil {
		return err
	}

	s.logger.Info(ctx, "event deleted", "event", eventID)
	return nil
}

// Complete marks the event completed and stamps CompletedAt.
func (s *CalendarService) Complete(ctx context.Context, sessionID, eventID string) (*models.CalendarEvent, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageCalendar); err != nil {
		return nil, err
	}

	repo := s.repos.Events(s.db)

	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	event.Status = models.EventStatusCompleted
	event.CompletedAt = now
	event.UpdatedAt = now

	if err := repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return event, nil
}

// Upcoming returns scheduled events within the next days, date-sorted.
func (s *CalendarService) Upcoming(ctx context.Context, sessionID string, days int) ([]*models.CalendarEvent, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionRead); err != nil {
		return nil, err
	}

	if days <= 0 {
		days = 7
	}

	all, err := s.repos.Events(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}

	now := s.clock.Now()
	horizon := now.AddDate(0, 0, days)

	result := make([]*models.CalendarEvent, 0, len(all))
	for _, e := range all {
		if e.Status != models.EventStatusScheduled {
			continue
		}
		if e.Date.Before(now) || e.Date.After(horizon) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/logging"
	"github.com/gmpi-project/gmpi/internal/server/models"
	"github.com/gmpi-project/gmpi/internal/server/repositories/repomanager"
	"github.com/gmpi-project/gmpi/internal/server/sessions"
)

// FacilityService manages the facility inventory. Mutations require
// manage_maintenance, deletion requires the delete permission.
type FacilityService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	sessions *sessions.Manager
	logger   logging.Logger
}

func NewFacilityService(db *sql.DB, repos repomanager.RepositoryManager, sm *sessions.Manager, logger logging.Logger) *FacilityService {
	return &FacilityService{db: db, repos: repos, sessions: sm, logger: logger}
}

// CreateFacilityRequest carries the fields for a new facility. Name, type
// and location are required; status defaults to active.
type CreateFacilityRequest struct {
	Name            string
	Type            string
	Location        string
	Status          models.FacilityStatus
	LastMaintenance time.Time
	NextMaintenance time.Time
}

func (s *FacilityService) Create(ctx context.Context, sessionID string, req CreateFacilityRequest) (*models.Facility, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageMaintenance); err != nil {
		return nil, err
	}

	if req.Name == "" || req.Type == "" || req.Location == "" {
		return nil, fmt.Errorf("name, type and location are required: %w", common.ErrValidation)
	}

	if req.Status == "" {
		req.Status = models.FacilityStatusActive
	}

	facility := &models.Facility{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Type:            req.Type,
		Location:        req.Location,
		Status:          req.Status,
		LastMaintenance: req.LastMaintenance,
		NextMaintenance: req.NextMaintenance,
	}

	if _, err := s.repos.Facilities(s.db).Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("error creating facility: %w", err)
	}

	s.logger.Info(ctx, "facility created", "facility", facility.Name)
	return facility, nil
}

func (s *FacilityService) List(ctx context.Context, sessionID string) ([]*models.Facility, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionRead); err != nil {
		return nil, err
	}

	all, err := s.repos.Facilities(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing facilities: %w", err)
	}
	return all, nil
}

func (s *FacilityService) Get(ctx context.Context, sessionID, facilityID string) (*models.Facility, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionRead); err != nil {
		return nil, err
	}
	return s.repos.Facilities(s.db).GetByID(ctx, facilityID)
}

// FacilityUpdate is the allow-list patch for Update. Nil fields are left
// untouched.
type FacilityUpdate struct {
	Name            *string
	Type            *string
	Location        *string
	Status          *models.FacilityStatus
	LastMaintenance *time.Time
	NextMaintenance *time.Time
}

func (s *FacilityService) Update(ctx context.Context, sessionID, facilityID string, upd FacilityUpdate) (*models.Facility, error) {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionManageMaintenance); err != nil {
		return nil, err
	}

	repo := s.repos.Facilities(s.db)

	facility, err := repo.GetByID(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		facility.Name = *upd.Name
	}
	if upd.Type != nil {
		facility.Type = *upd.Type
	}
	if upd.Location != nil {
		facility.Location = *upd.Location
	}
	if upd.Status != nil {
		facility.Status = *upd.Status
	}
	if upd.LastMaintenance != nil {
		facility.LastMaintenance = *upd.LastMaintenance
	}
	if upd.NextMaintenance != nil {
		facility.NextMaintenance = *upd.NextMaintenance
	}

	if err := repo.Update(ctx, facility); err != nil {
		return nil, fmt.Errorf("error updating facility: %w", err)
	}
	return facility, nil
}

func (s *FacilityService) Delete(ctx context.Context, sessionID, facilityID string) error {
	if _, err := resolveSession(s.sessions, sessionID, models.PermissionDelete); err != nil {
		return err
	}

	if err := s.repos.Facilities(s.db).Delete(ctx, facilityID); err != nil {
		return err
	}

	s.logger.Info(ctx, "facility deleted", "facility", facilityID)
	return nil
}

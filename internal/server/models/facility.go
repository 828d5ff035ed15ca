package models

import "time"

type FacilityStatus string

const (
	FacilityStatusActive              FacilityStatus = "active"
	FacilityStatusMaintenanceRequired FacilityStatus = "maintenance_required"
	FacilityStatusInactive            FacilityStatus = "inactive"
)

// Facility is a maintainable school installation (building, lab, gym...).
type Facility struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Type            string         `json:"type"`
	Location        string         `json:"location"`
	Status          FacilityStatus `json:"status"`
	LastMaintenance time.Time      `json:"last_maintenance"`
	NextMaintenance time.Time      `json:"next_maintenance"`
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmpi-project/gmpi/internal/common"
	"github.com/gmpi-project/gmpi/internal/server/models"
)

func TestFacilityCreate_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authority := env.loginAuthority(t)

	facility, err := env.facilities.Create(ctx, authority, CreateFacilityRequest{
		Name:     "Edificio Principal",
		Type:     "building",
		Location: "Sector Norte",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, facility.ID)
	assert.Equal(t, models.FacilityStatusActive, facility.Status)
}

func TestFacilityCreate_RequiredFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authority := env.loginAuthority(t)

	_, err := env.facilities.Create(ctx, authority, CreateFacilityRequest{Name: "Only a name"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestFacilityUpdate_Patch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authority := env.loginAuthority(t)

	facility, err := env.facilities.Create(ctx, authority, CreateFacilityRequest{
		Name: "Gimnasio", Type: "sports", Location: "Sector Sur",
	})
	require.NoError(t, err)

	status := models.FacilityStatusMaintenanceRequired
	next := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	updated, err := env.facilities.Update(ctx, authority, facility.ID, FacilityUpdate{
		Status:          &status,
		NextMaintenance: &next,
	})
	require.NoError(t, err)

	assert.Equal(t, models.FacilityStatusMaintenanceRequired, updated.Status)
	assert.Equal(t, next, updated.NextMaintenance)
	assert.Equal(t, "Gimnasio", updated.Name)
}

func TestFacilityDelete_RequiresDeletePermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.loginAdmin(t)
	authority := env.loginAuthority(t)

	facility, err := env.facilities.Create(ctx, authority, CreateFacilityRequest{
		Name: "Aula Temporal", Type: "classroom", Location: "Anexo",
	})
	require.NoError(t, err)

	// The authority role carries manage_maintenance but not delete.
	err = env.facilities.Delete(ctx, authority, facility.ID)
	assert.ErrorIs(t, err, common.ErrPermissionDenied)

	require.NoError(t, env.facilities.Delete(ctx, admin, facility.ID))

	_, err = env.facilities.Get(ctx, admin, facility.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	authority := env.loginAuthority(t)
	now := env.clock.Now()

	seed := []CreateFacilityRequest{
		{Name: "Edificio Principal", Type: "building", Location: "Norte"},
		{Name: "Gimnasio", Type: "sports", Location: "Sur", Status: models.FacilityStatusMaintenanceRequired},
		{Name: "Bodega", Type: "storage", Location: "Este", Status: models.FacilityStatusInactive},
	}
	for _, req := range seed {
		_, err := env.facilities.Create(ctx, authority, req)
		require.NoError(t, err)
	}

	_, err := env.calendar.Create(ctx, authority, CreateEventRequest{
		Title: "Within window", Date: now.AddDate(0, 0, 10), Facility: "Gimnasio",
	})
	require.NoError(t, err)
	_, err = env.calendar.Create(ctx, authority, CreateEventRequest{
		Title: "Beyond window", Date: now.AddDate(0, 0, 45), Facility: "Gimnasio",
	})
	require.NoError(t, err)

	summary, err := env.dashboard.Summary(ctx, authority)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalFacilities)
	assert.Equal(t, 1, summary.ActiveFacilities)
	assert.Equal(t, 1, summary.MaintenanceRequired)
	assert.Equal(t, 1, summary.InactiveFacilities)
	require.Len(t, summary.UpcomingMaintenance, 1)
	assert.Equal(t, "Within window", summary.UpcomingMaintenance[0].Title)
}

func TestDashboardSummary_AnyLiveSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, RegisterRequest{
		Email: "viewer2@colegio.edu", Password: "secret1", Name: "Viewer", Role: "guest",
	})
	require.NoError(t, err)

	viewer, err := env.auth.Authenticate(ctx, "viewer2@colegio.edu", "secret1")
	require.NoError(t, err)

	_, err = env.dashboard.Summary(ctx, viewer.ID)
	require.NoError(t, err)

	_, err = env.dashboard.Summary(ctx, "expired-or-bogus")
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

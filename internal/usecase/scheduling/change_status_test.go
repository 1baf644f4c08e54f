package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
)

func newTransition(f *fakeRepo) *ChangeAppointmentStatus {
	uc := NewChangeAppointmentStatus(f, testCfg(), nil)
	uc.now = func() time.Time { return testNow }
	return uc
}

func transitionInput(apID uint, target domain.Status, role domain.ActorRole) ChangeStatusInput {
	return ChangeStatusInput{
		BarbershopID:  1,
		AppointmentID: apID,
		Target:        target,
		Role:          role,
	}
}

func TestChangeStatusFullLifecycle(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusPending)

	uc := newTransition(f)
	ctx := context.Background()

	for _, target := range []domain.Status{
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
	} {
		got, err := uc.Execute(ctx, transitionInput(ap.ID, target, domain.RoleBarber))
		require.NoError(t, err, target)
		assert.Equal(t, string(target), got.Status)
	}

	stored, err := f.GetAppointment(ctx, 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, time.UTC, stored.CompletedAt.Location())
}

func TestChangeStatusIllegalTransitionLeavesStateUntouched(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusCompleted)

	_, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.StatusPending, domain.RoleAdmin),
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))

	stored, _ := f.GetAppointment(context.Background(), 1, ap.ID)
	assert.Equal(t, string(domain.StatusCompleted), stored.Status)
	assert.Nil(t, stored.CancelledAt)
}

func TestChangeStatusRejectsUnknownTarget(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	ap := seedBooking(f, 2, "10:00", 30)

	_, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.Status("banana"), domain.RoleAdmin),
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
}

func TestCancelInsideCutoffDeniedForClient(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	f.policies[2] = domain.ProviderPolicy{CancellationCutoffMinutes: 60}

	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusConfirmed)
	// começa 30min depois do "agora" do teste
	ap.StartTime = testNow.Add(30 * time.Minute).UTC()
	ap.EndTime = ap.StartTime.Add(30 * time.Minute)

	_, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.StatusCancelled, domain.RoleClient),
	)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeCancellationCutoff))

	stored, _ := f.GetAppointment(context.Background(), 1, ap.ID)
	assert.Equal(t, string(domain.StatusConfirmed), stored.Status)
}

func TestCancelInsideCutoffAllowedForAdmin(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	f.policies[2] = domain.ProviderPolicy{CancellationCutoffMinutes: 60}

	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusConfirmed)
	ap.StartTime = testNow.Add(30 * time.Minute).UTC()
	ap.EndTime = ap.StartTime.Add(30 * time.Minute)

	got, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.StatusCancelled, domain.RoleAdmin),
	)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
	require.NotNil(t, got.CancelledAt)
}

func TestCancelOutsideCutoffAllowedForClient(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	f.policies[2] = domain.ProviderPolicy{CancellationCutoffMinutes: 60}

	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusConfirmed)
	ap.StartTime = testNow.Add(3 * time.Hour).UTC()
	ap.EndTime = ap.StartTime.Add(30 * time.Minute)

	got, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.StatusCancelled, domain.RoleClient),
	)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
}

func TestCancelPendingIgnoresCutoff(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	f.policies[2] = domain.ProviderPolicy{CancellationCutoffMinutes: 60}

	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusPending)
	ap.StartTime = testNow.Add(10 * time.Minute).UTC()
	ap.EndTime = ap.StartTime.Add(30 * time.Minute)

	got, err := newTransition(f).Execute(
		context.Background(),
		transitionInput(ap.ID, domain.StatusCancelled, domain.RoleClient),
	)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)
}

func TestFacadeChangeStatusTranslatesBusinessError(t *testing.T) {
	f := newFakeRepo()
	seedService(f, 1, 30)
	ap := seedBooking(f, 2, "10:00", 30)
	ap.Status = string(domain.StatusCancelled)

	facade := NewFacade(f, testCfg(), nil)
	facade.change.now = func() time.Time { return testNow }

	outcome, err := facade.ChangeAppointmentStatus(
		context.Background(),
		transitionInput(ap.ID, domain.StatusConfirmed, domain.RoleAdmin),
	)
	require.NoError(t, err)
	assert.Equal(t, httperr.CodeInvalidTransition, outcome.ErrorCode)
	assert.Nil(t, outcome.Appointment)
}

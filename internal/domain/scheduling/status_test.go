package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

func TestCanTransitionLegalGraph(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusInProgress},
		{StatusConfirmed, StatusCancelled},
		{StatusInProgress, StatusCompleted},
	}
	for _, tc := range legal {
		assert.NoError(t, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}

	illegal := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusPending, StatusInProgress},
		{StatusInProgress, StatusCancelled},
		{StatusCompleted, StatusPending},
		{StatusCancelled, StatusConfirmed},
		{StatusCompleted, StatusCancelled},
	}
	for _, tc := range illegal {
		err := CanTransition(tc.from, tc.to)
		require.Error(t, err, "%s -> %s", tc.from, tc.to)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
	}
}

func TestTerminalStatesAbsorb(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled} {
		assert.True(t, IsTerminal(terminal))
		for _, target := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled} {
			assert.Error(t, CanTransition(terminal, target), "%s -> %s deveria falhar", terminal, target)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(true))
	assert.Equal(t, StatusPending, InitialStatus(false))
}

func TestApplyTransitionStampsTimestamps(t *testing.T) {
	now := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(StatusConfirmed)}
	require.NoError(t, ApplyTransition(ap, StatusCancelled, now))
	assert.Equal(t, "cancelled", ap.Status)
	require.NotNil(t, ap.CancelledAt)
	assert.Equal(t, now, *ap.CancelledAt)

	ap = &models.Appointment{Status: string(StatusInProgress)}
	require.NoError(t, ApplyTransition(ap, StatusCompleted, now))
	assert.Equal(t, "completed", ap.Status)
	require.NotNil(t, ap.CompletedAt)
}

func TestApplyTransitionIllegalLeavesUntouched(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusCompleted)}

	err := ApplyTransition(ap, StatusPending, time.Now())

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidTransition))
	assert.Equal(t, "completed", ap.Status)
	assert.Nil(t, ap.CancelledAt)
}

func TestCancellationCutoff(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	soon := now.Add(30 * time.Minute)
	far := now.Add(3 * time.Hour)

	// cliente dentro do corte → bloqueado
	err := CancellationAllowed(StatusConfirmed, soon, now, 60, RoleClient)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeCancellationCutoff))

	// fora do corte → ok
	assert.NoError(t, CancellationAllowed(StatusConfirmed, far, now, 60, RoleClient))

	// admin ignora o corte
	assert.NoError(t, CancellationAllowed(StatusConfirmed, soon, now, 60, RoleAdmin))
	assert.NoError(t, CancellationAllowed(StatusConfirmed, soon, now, 60, RoleOwner))

	// pending não tem corte
	assert.NoError(t, CancellationAllowed(StatusPending, soon, now, 60, RoleClient))

	// corte desabilitado
	assert.NoError(t, CancellationAllowed(StatusConfirmed, soon, now, 0, RoleClient))
}

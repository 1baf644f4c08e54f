package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridFor(t *testing.T, date time.Time, step int) []time.Time {
	t.Helper()
	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         openDay("08:00", "18:00"),
		SlotMinutes: step,
		Now:         date.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	return grid
}

func TestOverlaps(t *testing.T) {
	base := day(2026, 9, 1)
	at := func(hm string) time.Time { return AtDate(base, hm, brt) }

	assert.True(t, Overlaps(at("10:00"), at("10:30"), at("10:15"), at("10:45")))
	assert.True(t, Overlaps(at("10:00"), at("11:00"), at("10:30"), at("10:45")))
	// bordas encostadas não conflitam
	assert.False(t, Overlaps(at("10:00"), at("10:30"), at("10:30"), at("11:00")))
	assert.False(t, Overlaps(at("10:30"), at("11:00"), at("10:00"), at("10:30")))
	assert.False(t, Overlaps(at("08:00"), at("09:00"), at("12:00"), at("13:00")))
}

func TestBuildSlotsAdjacentBookingBlocksExactlyOne(t *testing.T) {
	date := day(2026, 9, 1)
	grid := gridFor(t, date, 30)
	at := func(hm string) time.Time { return AtDate(date, hm, brt) }

	busy := []Busy{{AppointmentID: 7, Start: at("10:00"), End: at("10:30")}}
	slots := BuildSlots(grid, 30, busy)

	byLabel := map[string]TimeSlot{}
	for _, s := range slots {
		byLabel[s.Label] = s
	}

	assert.False(t, byLabel["10:00"].Available)
	require.NotNil(t, byLabel["10:00"].AppointmentID)
	assert.Equal(t, uint(7), *byLabel["10:00"].AppointmentID)

	assert.True(t, byLabel["09:30"].Available)
	assert.True(t, byLabel["10:30"].Available)
}

func TestBuildSlotsLongBookingBlocksMultiple(t *testing.T) {
	date := day(2026, 9, 1)
	grid := gridFor(t, date, 30)
	at := func(hm string) time.Time { return AtDate(date, hm, brt) }

	// agendamento de 60min às 10:00, grade de 30min
	busy := []Busy{{AppointmentID: 9, Start: at("10:00"), End: at("11:00")}}
	slots := BuildSlots(grid, 30, busy)

	byLabel := map[string]TimeSlot{}
	for _, s := range slots {
		byLabel[s.Label] = s
	}

	assert.False(t, byLabel["10:00"].Available)
	assert.False(t, byLabel["10:30"].Available)
	assert.True(t, byLabel["09:30"].Available)
	assert.True(t, byLabel["11:00"].Available)
}

func TestBuildSlotsLongServiceCollidesAhead(t *testing.T) {
	date := day(2026, 9, 1)
	grid := gridFor(t, date, 30)
	at := func(hm string) time.Time { return AtDate(date, hm, brt) }

	// serviço de 60min: o candidato 09:30 invade a reserva das 10:00
	busy := []Busy{{AppointmentID: 3, Start: at("10:00"), End: at("10:30")}}
	slots := BuildSlots(grid, 60, busy)

	byLabel := map[string]TimeSlot{}
	for _, s := range slots {
		byLabel[s.Label] = s
	}

	assert.False(t, byLabel["09:30"].Available)
	assert.False(t, byLabel["10:00"].Available)
	assert.True(t, byLabel["09:00"].Available)
	assert.True(t, byLabel["10:30"].Available)
}

func TestBuildSlotsOrderedAndUnique(t *testing.T) {
	date := day(2026, 9, 1)
	grid := gridFor(t, date, 30)

	slots := BuildSlots(grid, 30, nil)

	require.Len(t, slots, 20)
	seen := map[string]bool{}
	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1].StartsAt.Before(slots[i].StartsAt))
	}
	for _, s := range slots {
		assert.False(t, seen[s.Label], "slot duplicado %s", s.Label)
		seen[s.Label] = true
		assert.True(t, s.Available)
	}
}

func TestClampToWindow(t *testing.T) {
	date := day(2026, 9, 1)
	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         openDay("06:00", "22:00"),
		SlotMinutes: 60,
		Now:         date.Add(-24 * time.Hour),
	})
	require.NoError(t, err)

	slots := BuildSlots(grid, 60, nil)
	clamped := ClampToWindow(slots, date, "08:00", "18:00", brt)

	require.NotEmpty(t, clamped)
	assert.Equal(t, "08:00", clamped[0].Label)
	assert.Equal(t, "17:00", clamped[len(clamped)-1].Label)
}

func TestFallbackGrid(t *testing.T) {
	date := day(2026, 9, 1)
	now := date.Add(-24 * time.Hour)

	slots := FallbackGrid(date, "08:00", "18:00", 30, now, brt)

	require.Len(t, slots, 20)
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.True(t, s.Unverified)
	}
	assert.Equal(t, "08:00", slots[0].Label)
	assert.Equal(t, "17:30", slots[19].Label)
}

package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
)

var brt = time.FixedZone("BRT", -3*60*60)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, brt)
}

func openDay(start, end string) WorkingDay {
	return WorkingDay{Weekday: 2, Open: true, Start: start, End: end}
}

func TestGenerateGridFullDay(t *testing.T) {
	date := day(2026, 9, 1)

	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         openDay("08:00", "18:00"),
		SlotMinutes: 30,
		Now:         date.Add(-24 * time.Hour),
	})

	require.NoError(t, err)
	require.Len(t, grid, 20)
	assert.Equal(t, "08:00", grid[0].Format("15:04"))
	assert.Equal(t, "17:30", grid[19].Format("15:04"))
}

func TestGenerateGridClosedDay(t *testing.T) {
	date := day(2026, 9, 1)

	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         WorkingDay{Open: false},
		SlotMinutes: 30,
		Now:         date,
	})

	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestGenerateGridHoliday(t *testing.T) {
	date := day(2026, 9, 7)

	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         openDay("08:00", "18:00"),
		SlotMinutes: 30,
		Holidays:    map[string]bool{"2026-09-07": true},
		Now:         date.Add(-24 * time.Hour),
	})

	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestGenerateGridInvalidSlotMinutes(t *testing.T) {
	_, err := GenerateGrid(GridInput{
		Date:        day(2026, 9, 1),
		Day:         openDay("08:00", "18:00"),
		SlotMinutes: 0,
		Now:         day(2026, 9, 1),
	})

	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidSlotMinutes))
}

func TestGenerateGridSkipsBreak(t *testing.T) {
	date := day(2026, 9, 1)
	wd := openDay("08:00", "18:00")
	wd.BreakStart = "12:00"
	wd.BreakEnd = "13:00"

	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         wd,
		SlotMinutes: 30,
		Now:         date.Add(-24 * time.Hour),
	})

	require.NoError(t, err)
	require.Len(t, grid, 18)

	for _, g := range grid {
		label := g.Format("15:04")
		assert.NotEqual(t, "12:00", label)
		assert.NotEqual(t, "12:30", label)
	}
	// 13:00 volta a estar disponível
	assert.Equal(t, "13:00", grid[8].Format("15:04"))
}

func TestGenerateGridExcludesPast(t *testing.T) {
	date := day(2026, 9, 1)
	now := time.Date(2026, 9, 1, 10, 15, 0, 0, brt)

	grid, err := GenerateGrid(GridInput{
		Date:        date,
		Day:         openDay("08:00", "18:00"),
		SlotMinutes: 30,
		Now:         now,
	})

	require.NoError(t, err)
	require.NotEmpty(t, grid)
	assert.Equal(t, "10:30", grid[0].Format("15:04"))
}

// Propriedade: nenhum candidato fora de [start,end), dentro da pausa ou
// no passado, para várias configurações.
func TestGenerateGridNeverEscapesBounds(t *testing.T) {
	date := day(2026, 9, 2)
	now := time.Date(2026, 9, 2, 9, 40, 0, 0, brt)

	configs := []struct {
		day  WorkingDay
		step int
	}{
		{openDay("08:00", "18:00"), 30},
		{openDay("09:00", "12:00"), 15},
		{openDay("07:30", "19:45"), 45},
		{WorkingDay{Weekday: 3, Open: true, Start: "08:00", End: "17:00", BreakStart: "11:30", BreakEnd: "14:00"}, 20},
	}

	for _, cfg := range configs {
		grid, err := GenerateGrid(GridInput{
			Date:        date,
			Day:         cfg.day,
			SlotMinutes: cfg.step,
			Now:         now,
		})
		require.NoError(t, err)

		dayStart := AtDate(date, cfg.day.Start, brt)
		dayEnd := AtDate(date, cfg.day.End, brt)

		for _, g := range grid {
			assert.False(t, g.Before(dayStart), "antes do expediente: %s", g)
			assert.True(t, g.Before(dayEnd), "após o expediente: %s", g)
			assert.False(t, g.Before(now), "no passado: %s", g)

			if cfg.day.HasBreak() {
				bs := AtDate(date, cfg.day.BreakStart, brt)
				be := AtDate(date, cfg.day.BreakEnd, brt)
				inBreak := !g.Before(bs) && g.Before(be)
				assert.False(t, inBreak, "dentro da pausa: %s", g)
			}
		}
	}
}

func TestWorkingDayValidate(t *testing.T) {
	assert.NoError(t, openDay("08:00", "18:00").Validate())
	assert.NoError(t, WorkingDay{Open: false}.Validate())

	bad := openDay("18:00", "08:00")
	assert.Error(t, bad.Validate())

	outsideBreak := openDay("08:00", "18:00")
	outsideBreak.BreakStart = "07:00"
	outsideBreak.BreakEnd = "09:00"
	assert.Error(t, outsideBreak.Validate())

	invertedBreak := openDay("08:00", "18:00")
	invertedBreak.BreakStart = "14:00"
	invertedBreak.BreakEnd = "12:00"
	assert.Error(t, invertedBreak.Validate())
}

func TestWithinWorkingDay(t *testing.T) {
	wd := openDay("08:00", "18:00")
	wd.BreakStart = "12:00"
	wd.BreakEnd = "13:00"

	date := day(2026, 9, 1)
	at := func(hm string) time.Time { return AtDate(date, hm, brt) }

	assert.True(t, WithinWorkingDay(wd, at("09:00"), at("09:30"), brt))
	assert.False(t, WithinWorkingDay(wd, at("07:30"), at("08:00"), brt))
	assert.False(t, WithinWorkingDay(wd, at("17:45"), at("18:15"), brt))
	// cruza o almoço
	assert.False(t, WithinWorkingDay(wd, at("11:45"), at("12:15"), brt))
	// encosta no almoço sem cruzar
	assert.True(t, WithinWorkingDay(wd, at("11:30"), at("12:00"), brt))
	assert.True(t, WithinWorkingDay(wd, at("13:00"), at("13:30"), brt))
}

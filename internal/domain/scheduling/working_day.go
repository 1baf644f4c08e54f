package scheduling

import (
	"time"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

// WorkingDay é a configuração de expediente de um barbeiro para um dia
// da semana, já desacoplada do modelo persistido.
type WorkingDay struct {
	Weekday    int
	Open       bool
	Start      string // "08:00"
	End        string // "18:00"
	BreakStart string
	BreakEnd   string
}

func WorkingDayFromModel(wh models.WorkingHours) WorkingDay {
	return WorkingDay{
		Weekday:    wh.Weekday,
		Open:       wh.Active,
		Start:      wh.StartTime,
		End:        wh.EndTime,
		BreakStart: wh.BreakStart,
		BreakEnd:   wh.BreakEnd,
	}
}

func (d WorkingDay) HasBreak() bool {
	return d.BreakStart != "" && d.BreakEnd != ""
}

// Validate garante start < end e pausa estritamente dentro de [start,end).
func (d WorkingDay) Validate() error {
	if !d.Open {
		return nil
	}

	start, err := parseHM(d.Start)
	if err != nil {
		return httperr.ErrBusiness("invalid_working_hours")
	}
	end, err := parseHM(d.End)
	if err != nil {
		return httperr.ErrBusiness("invalid_working_hours")
	}
	if !start.Before(end) {
		return httperr.ErrBusiness("invalid_working_hours")
	}

	if d.HasBreak() {
		bs, err := parseHM(d.BreakStart)
		if err != nil {
			return httperr.ErrBusiness("invalid_working_hours")
		}
		be, err := parseHM(d.BreakEnd)
		if err != nil {
			return httperr.ErrBusiness("invalid_working_hours")
		}
		// pausa estritamente dentro de [start, end)
		if !bs.Before(be) || bs.Before(start) || be.After(end) {
			return httperr.ErrBusiness("invalid_working_hours")
		}
	}

	return nil
}

func parseHM(hm string) (time.Time, error) {
	return time.Parse("15:04", hm)
}

// AtDate materializa um horário "15:04" no dia/timezone informados.
func AtDate(date time.Time, hm string, loc *time.Location) time.Time {
	t, _ := time.Parse("15:04", hm)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	)
}

// WithinWorkingDay valida se [start,end) cabe no expediente,
// respeitando a pausa.
func WithinWorkingDay(d WorkingDay, start, end time.Time, loc *time.Location) bool {
	if !d.Open || d.Start == "" || d.End == "" {
		return false
	}

	workStart := AtDate(start, d.Start, loc)
	workEnd := AtDate(start, d.End, loc)

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if d.HasBreak() {
		breakStart := AtDate(start, d.BreakStart, loc)
		breakEnd := AtDate(start, d.BreakEnd, loc)
		if start.Before(breakEnd) && end.After(breakStart) {
			return false
		}
	}

	return true
}

package scheduling

import (
	"context"
	"time"

	"github.com/NavalhaApps/agenda-api/internal/audit"
	"github.com/NavalhaApps/agenda-api/internal/config"
	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
	"github.com/NavalhaApps/agenda-api/internal/observability"
	"github.com/NavalhaApps/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RescheduleInput struct {
	BarbershopID  uint
	AppointmentID uint

	Date string // 2006-01-02 no timezone da barbearia
	Time string // 15:04

	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleAppointment struct {
	repo  domain.Repository
	cfg   *config.Config
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewRescheduleAppointment(
	repo domain.Repository,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:  repo,
		cfg:   cfg,
		audit: dispatcher,
		now:   time.Now,
	}
}

// Execute move um agendamento pending/confirmed para um novo horário.
// O status não muda; em conflito nada é mutado (check-then-write
// atômico no repositório).
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, writePathError(err)
	}

	ap, err := uc.repo.GetAppointment(ctx, in.BarbershopID, in.AppointmentID)
	if err != nil {
		return nil, writePathError(err)
	}

	current := domain.Status(ap.Status)
	if current != domain.StatusPending && current != domain.StatusConfirmed {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}

	loc := timezone.Location(shop.Timezone)

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.now().In(loc)
	if start.Before(now) {
		return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
	}

	svc, err := uc.repo.GetService(ctx, in.BarbershopID, ap.ServiceID)
	if err != nil {
		return nil, writePathError(err)
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	if ap.BarberID != nil {
		wd, err := uc.repo.GetWorkingDay(ctx, *ap.BarberID, int(start.Weekday()))
		if err != nil {
			return nil, writePathError(err)
		}
		if !domain.WithinWorkingDay(wd, start, end, loc) {
			return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
		}
	}

	if err := uc.repo.UpdateAppointmentInstant(ctx, ap, start.UTC(), end.UTC()); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			observability.SlotConflicts.Inc()
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       in.ActorID,
		Action:       "appointment_rescheduled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}

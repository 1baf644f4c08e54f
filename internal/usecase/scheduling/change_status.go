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
)

// ======================================================
// INPUT
// ======================================================

type ChangeStatusInput struct {
	BarbershopID  uint
	AppointmentID uint

	Target domain.Status

	// Papel de quem pede a transição — sempre parâmetro explícito,
	// nunca lido de estado ambiente de sessão.
	Role    domain.ActorRole
	ActorID *uint
}

// ======================================================
// USE CASE
// ======================================================

type ChangeAppointmentStatus struct {
	repo  domain.Repository
	cfg   *config.Config
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewChangeAppointmentStatus(
	repo domain.Repository,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
) *ChangeAppointmentStatus {
	return &ChangeAppointmentStatus{
		repo:  repo,
		cfg:   cfg,
		audit: dispatcher,
		now:   time.Now,
	}
}

func (uc *ChangeAppointmentStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	if !in.Target.Valid() {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}

	ap, err := uc.repo.GetAppointment(ctx, in.BarbershopID, in.AppointmentID)
	if err != nil {
		return nil, writePathError(err)
	}

	from := domain.Status(ap.Status)
	now := uc.now().UTC()

	if in.Target == domain.StatusCancelled {
		cutoff := uc.cfg.CancellationCutoffMinutes
		if ap.BarberID != nil {
			policy, err := uc.repo.GetProviderPolicy(ctx, *ap.BarberID)
			if err != nil {
				return nil, writePathError(err)
			}
			cutoff = policy.CancellationCutoffMinutes
		}

		if err := domain.CancellationAllowed(from, ap.StartTime, now, cutoff, in.Role); err != nil {
			return nil, err
		}
	}

	if err := domain.ApplyTransition(ap, in.Target, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	observability.StatusTransitions.WithLabelValues(string(from), string(in.Target)).Inc()

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       in.ActorID,
		Action:       "appointment_" + string(in.Target),
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}

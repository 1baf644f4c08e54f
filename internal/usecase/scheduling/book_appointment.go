package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

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

type BookAppointmentInput struct {
	BarbershopID uint

	// Nulo = "qualquer barbeiro": sem checagem de conflito por
	// prestador; a barbearia atribui depois.
	BarberID *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint

	Date string // 2006-01-02 no timezone da barbearia
	Time string // 15:04

	PaymentMethod string
	Observations  string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo  domain.Repository
	cfg   *config.Config
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewBookAppointment(
	repo domain.Repository,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
) *BookAppointment {
	return &BookAppointment{
		repo:  repo,
		cfg:   cfg,
		audit: dispatcher,
		now:   time.Now,
	}
}

// Execute cria o agendamento. A checagem de disponibilidade feita pelo
// cliente NUNCA é confiada: a re-validação de conflito roda de novo no
// repositório, dentro da mesma unidade atômica do insert.
func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, writePathError(err)
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

	// antecedência mínima
	minAdvance := shop.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := uc.now().In(loc)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
	}

	svc, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		return nil, writePathError(err)
	}
	if !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	method := domain.PaymentMethod(in.PaymentMethod)
	if method == "" {
		method = domain.MethodLocal
	}
	switch method {
	case domain.MethodAdvance, domain.MethodLocal, domain.MethodCash, domain.MethodCard, domain.MethodPix:
	default:
		return nil, httperr.ErrBusiness("invalid_payment_method")
	}

	policy := domain.ProviderPolicy{}

	if in.BarberID != nil {
		capable, err := uc.repo.BarberPerformsService(ctx, *in.BarberID, in.ServiceID)
		if err != nil {
			return nil, writePathError(err)
		}
		if !capable {
			return nil, httperr.ErrBusiness(httperr.CodeProviderIncapable)
		}

		wd, err := uc.repo.GetWorkingDay(ctx, *in.BarberID, int(start.Weekday()))
		if err != nil {
			return nil, writePathError(err)
		}
		if !domain.WithinWorkingDay(wd, start, end, loc) {
			return nil, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours)
		}

		policy, err = uc.repo.GetProviderPolicy(ctx, *in.BarberID)
		if err != nil {
			return nil, writePathError(err)
		}
	}

	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, writePathError(err)
	}

	status := domain.InitialStatus(policy.AutoConfirm)

	ap := &models.Appointment{
		PublicID:      uuid.NewString(),
		BarbershopID:  in.BarbershopID,
		BarberID:      in.BarberID,
		ClientID:      client.ID,
		ServiceID:     svc.ID,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		Status:        string(status),
		PaymentMethod: string(method),
		Observations:  in.Observations,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			observability.SlotConflicts.Inc()
			uc.audit.Dispatch(audit.Event{
				BarbershopID: in.BarbershopID,
				UserID:       in.BarberID,
				Action:       "appointment_conflict",
				Entity:       "appointment",
				Metadata: map[string]any{
					"start": start,
					"end":   end,
				},
			})
		}
		return nil, err
	}

	observability.BookingsCreated.WithLabelValues(string(status)).Inc()

	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       in.BarberID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}

// Leituras do caminho de escrita não degradam: erro de infraestrutura
// sobe como retryable, nunca vira fallback.
func writePathError(err error) error {
	if err == nil || isBusiness(err) || httperr.IsRetryable(err) {
		return err
	}
	return httperr.Retryable(err)
}

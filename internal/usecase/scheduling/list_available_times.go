package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NavalhaApps/agenda-api/internal/config"
	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/observability"
	"github.com/NavalhaApps/agenda-api/internal/timezone"
)

// Passo fixo da grade sintética servida quando o banco está fora do ar.
const fallbackSlotMinutes = 30

// ======================================================
// INPUT / OUTPUT
// ======================================================

type AvailabilityInput struct {
	BarbershopID uint
	BarberID     uint
	ServiceID    uint
	Date         time.Time
}

type AvailabilityResult struct {
	Date  string            `json:"date"`
	Slots []domain.TimeSlot `json:"slots"`

	// Reason é preenchido quando a lista vem vazia por regra de negócio
	// (ex.: barbeiro não executa o serviço) — não é um erro.
	Reason string `json:"reason,omitempty"`

	// Degraded marca a grade de fallback: slots não verificados.
	Degraded bool `json:"degraded,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type ListAvailableTimes struct {
	repo domain.Repository
	cfg  *config.Config
	now  func() time.Time
}

func NewListAvailableTimes(repo domain.Repository, cfg *config.Config) *ListAvailableTimes {
	return &ListAvailableTimes{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Execute resolve a disponibilidade de (barbeiro, serviço, data).
// Leituras de infraestrutura nunca derrubam a consulta: qualquer falha
// de fonte de dados degrada para a grade sintética e é reportada via
// log + métrica. Quem reservar a partir dela passa pela re-validação
// do caminho de escrita.
func (uc *ListAvailableTimes) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		if isBusiness(err) {
			return nil, err
		}
		return uc.fallback(in, timezone.Location(""), err), nil
	}

	loc := timezone.Location(shop.Timezone)
	now := uc.now().In(loc)

	svc, err := uc.repo.GetService(ctx, in.BarbershopID, in.ServiceID)
	if err != nil {
		if isBusiness(err) {
			return nil, err
		}
		return uc.fallback(in, loc, err), nil
	}
	if !svc.Active {
		return &AvailabilityResult{
			Date:   in.Date.Format("2006-01-02"),
			Slots:  []domain.TimeSlot{},
			Reason: "service_inactive",
		}, nil
	}

	capable, err := uc.repo.BarberPerformsService(ctx, in.BarberID, in.ServiceID)
	if err != nil {
		return uc.fallback(in, loc, err), nil
	}
	if !capable {
		return &AvailabilityResult{
			Date:   in.Date.Format("2006-01-02"),
			Slots:  []domain.TimeSlot{},
			Reason: httperr.CodeProviderIncapable,
		}, nil
	}

	weekday := int(in.Date.Weekday())

	wd, err := uc.repo.GetWorkingDay(ctx, in.BarberID, weekday)
	if err != nil {
		return uc.fallback(in, loc, err), nil
	}

	holidays, err := uc.repo.ListHolidays(ctx, in.BarbershopID)
	if err != nil {
		return uc.fallback(in, loc, err), nil
	}

	slotMinutes := shop.SlotMinutes
	if slotMinutes <= 0 {
		slotMinutes = uc.cfg.SlotMinutes
	}

	grid, err := domain.GenerateGrid(domain.GridInput{
		Date:        civilDay(in.Date, loc),
		Day:         wd,
		SlotMinutes: slotMinutes,
		Holidays:    holidays,
		Now:         now,
	})
	if err != nil {
		// erro defensivo de input, nunca coagido silenciosamente
		return nil, err
	}

	dayStart := civilDay(in.Date, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	busy, err := uc.repo.ListDayAppointments(ctx, in.BarberID, dayStart, dayEnd)
	if err != nil {
		return uc.fallback(in, loc, err), nil
	}

	slots := domain.BuildSlots(grid, svc.DurationMin, busy)
	slots = domain.ClampToWindow(slots, dayStart, uc.cfg.DisplayStart, uc.cfg.DisplayEnd, loc)

	return &AvailabilityResult{
		Date:  in.Date.Format("2006-01-02"),
		Slots: slots,
	}, nil
}

func (uc *ListAvailableTimes) fallback(
	in AvailabilityInput,
	loc *time.Location,
	cause error,
) *AvailabilityResult {

	observability.FallbackGridsServed.Inc()
	log.Error().
		Err(cause).
		Uint("barbershop_id", in.BarbershopID).
		Uint("barber_id", in.BarberID).
		Str("date", in.Date.Format("2006-01-02")).
		Msg("availability source unavailable, serving fallback grid")

	date := civilDay(in.Date, loc)
	now := uc.now().In(loc)

	slots := domain.FallbackGrid(
		date,
		uc.cfg.DisplayStart,
		uc.cfg.DisplayEnd,
		fallbackSlotMinutes,
		now,
		loc,
	)

	return &AvailabilityResult{
		Date:     in.Date.Format("2006-01-02"),
		Slots:    slots,
		Reason:   httperr.CodeDataSourceUnavailable,
		Degraded: true,
	}
}

// civilDay rebate a data para meia-noite no timezone da barbearia.
func civilDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

func isBusiness(err error) bool {
	var be httperr.BusinessError
	return errors.As(err, &be)
}

package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/NavalhaApps/agenda-api/internal/audit"
	"github.com/NavalhaApps/agenda-api/internal/config"
	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

// Facade é o único ponto de entrada do núcleo de agendamento para a
// camada HTTP: compõe os usecases e traduz erros de domínio em
// resultados tipados. Nenhuma regra de negócio vive aqui.
type Facade struct {
	availability *ListAvailableTimes
	book         *BookAppointment
	change       *ChangeAppointmentStatus
	reschedule   *RescheduleAppointment
}

func NewFacade(
	repo domain.Repository,
	cfg *config.Config,
	dispatcher *audit.Dispatcher,
) *Facade {
	return &Facade{
		availability: NewListAvailableTimes(repo, cfg),
		book:         NewBookAppointment(repo, cfg, dispatcher),
		change:       NewChangeAppointmentStatus(repo, cfg, dispatcher),
		reschedule:   NewRescheduleAppointment(repo, cfg, dispatcher),
	}
}

// ======================================================
// OUTCOMES
// ======================================================

type BookOutcome struct {
	Appointment *models.Appointment `json:"appointment,omitempty"`

	// Código de erro de negócio; vazio = sucesso.
	ErrorCode string `json:"error_code,omitempty"`

	// Em slot_conflict: a disponibilidade corrente, para o caller
	// re-exibir a grade sem uma segunda chamada.
	CurrentAvailability *AvailabilityResult `json:"current_availability,omitempty"`
}

type TransitionOutcome struct {
	Appointment *models.Appointment `json:"appointment,omitempty"`
	ErrorCode   string              `json:"error_code,omitempty"`
}

// ======================================================
// OPERATIONS
// ======================================================

func (f *Facade) ListAvailableTimes(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityResult, error) {
	return f.availability.Execute(ctx, in)
}

func (f *Facade) BookAppointment(
	ctx context.Context,
	in BookAppointmentInput,
) (*BookOutcome, error) {

	ap, err := f.book.Execute(ctx, in)
	if err == nil {
		return &BookOutcome{Appointment: ap}, nil
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		// infraestrutura no caminho de escrita: sobe verbatim
		return nil, err
	}

	outcome := &BookOutcome{ErrorCode: be.Code}

	if be.Code == httperr.CodeSlotConflict && in.BarberID != nil {
		if date, perr := time.Parse("2006-01-02", in.Date); perr == nil {
			if avail, aerr := f.availability.Execute(ctx, AvailabilityInput{
				BarbershopID: in.BarbershopID,
				BarberID:     *in.BarberID,
				ServiceID:    in.ServiceID,
				Date:         date,
			}); aerr == nil {
				outcome.CurrentAvailability = avail
			}
		}
	}

	return outcome, nil
}

func (f *Facade) ChangeAppointmentStatus(
	ctx context.Context,
	in ChangeStatusInput,
) (*TransitionOutcome, error) {

	ap, err := f.change.Execute(ctx, in)
	if err == nil {
		return &TransitionOutcome{Appointment: ap}, nil
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		return nil, err
	}

	return &TransitionOutcome{ErrorCode: be.Code}, nil
}

func (f *Facade) RescheduleAppointment(
	ctx context.Context,
	in RescheduleInput,
) (*BookOutcome, error) {

	ap, err := f.reschedule.Execute(ctx, in)
	if err == nil {
		return &BookOutcome{Appointment: ap}, nil
	}

	var be httperr.BusinessError
	if !errors.As(err, &be) {
		return nil, err
	}

	return &BookOutcome{ErrorCode: be.Code}, nil
}

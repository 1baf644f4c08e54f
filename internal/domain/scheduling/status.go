package scheduling

import (
	"time"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Máquina de estados: nenhum atalho é permitido (pending → completed
// direto é ilegal — o agendamento precisa ser confirmado e iniciado).
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// CanTransition valida o alvo contra o estado corrente.
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

// ===============================
// Actor / políticas
// ===============================

type ActorRole string

const (
	RoleAdmin  ActorRole = "admin"
	RoleOwner  ActorRole = "owner"
	RoleBarber ActorRole = "barber"
	RoleClient ActorRole = "client"
)

func (r ActorRole) Privileged() bool {
	return r == RoleAdmin || r == RoleOwner
}

// CancellationAllowed aplica a janela de corte: não-admins não cancelam
// um agendamento confirmado que começa dentro de cutoffMinutes.
func CancellationAllowed(current Status, startsAt, now time.Time, cutoffMinutes int, role ActorRole) error {
	if current != StatusConfirmed || role.Privileged() || cutoffMinutes <= 0 {
		return nil
	}
	if startsAt.Sub(now) < time.Duration(cutoffMinutes)*time.Minute {
		return httperr.ErrBusiness(httperr.CodeCancellationCutoff)
	}
	return nil
}

// ===============================
// Domain actions
// ===============================

// ApplyTransition muda o status e carimba os timestamps terminais.
// Em transição ilegal nada é mutado.
func ApplyTransition(ap *models.Appointment, target Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), target); err != nil {
		return err
	}

	ap.Status = string(target)

	switch target {
	case StatusCancelled:
		t := now.UTC()
		ap.CancelledAt = &t
	case StatusCompleted:
		t := now.UTC()
		ap.CompletedAt = &t
	}

	return nil
}

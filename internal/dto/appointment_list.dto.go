package dto

import (
	"time"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

type AppointmentListDTO struct {
	ID       uint   `json:"id"`
	PublicID string `json:"public_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	ClientName  string `json:"client_name"`
	ServiceName string `json:"service_name"`

	PaymentMethod string `json:"payment_method"`

	// Estado derivado, nunca persistido: fonte única é o resolvedor
	// de domínio.
	PaymentState string `json:"payment_state"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	state := domain.ResolvePaymentState(
		domain.Status(ap.Status),
		domain.PaymentMethod(ap.PaymentMethod),
		domain.PaymentStatus(ap.PaymentStatus),
	)

	return AppointmentListDTO{
		ID:            ap.ID,
		PublicID:      ap.PublicID,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		Status:        ap.Status,
		ClientName:    ap.Client.Name,
		ServiceName:   ap.Service.Name,
		PaymentMethod: ap.PaymentMethod,
		PaymentState:  string(state),
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap))
	}
	return out
}

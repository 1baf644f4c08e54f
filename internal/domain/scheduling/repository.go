package scheduling

import (
	"context"
	"time"

	"github.com/NavalhaApps/agenda-api/internal/models"
)

// Repository é a fronteira com o armazenamento. A lista de agendamentos
// de um barbeiro só é mutada através dela, e CreateAppointment /
// UpdateAppointmentInstant são unidades atômicas de check-then-write
// (transação com lock + constraint de exclusão no banco).
type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	BarberPerformsService(
		ctx context.Context,
		barberID uint,
		serviceID uint,
	) (bool, error)

	// -------- Availability inputs --------
	GetWorkingDay(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (WorkingDay, error)

	ListHolidays(
		ctx context.Context,
		barbershopID uint,
	) (map[string]bool, error)

	// Exclui cancelados; ordenado por início ascendente.
	ListDayAppointments(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]Busy, error)

	// -------- Policy --------
	GetProviderPolicy(
		ctx context.Context,
		barberID uint,
	) (ProviderPolicy, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		barbershopID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (write path) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		barbershopID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointmentInstant(
		ctx context.Context,
		ap *models.Appointment,
		newStart time.Time,
		newEnd time.Time,
	) error

	// -------- Payment recording --------
	RecordPaymentState(
		ctx context.Context,
		publicID string,
		method string,
		status string,
	) (*models.Appointment, error)

	// -------- Listing (presentation reads) --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

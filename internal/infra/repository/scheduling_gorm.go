package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &shop, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *SchedulingGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", serviceID, barbershopID).
		First(&svc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}
	return &svc, nil
}

// Sem linhas em barber_services o barbeiro executa qualquer serviço
// ativo da barbearia; com linhas, só os listados.
func (r *SchedulingGormRepository) BarberPerformsService(
	ctx context.Context,
	barberID uint,
	serviceID uint,
) (bool, error) {

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.BarberService{}).
		Where("barber_id = ?", barberID).
		Count(&total).Error; err != nil {
		return false, err
	}

	if total == 0 {
		return true, nil
	}

	var match int64
	if err := r.db.WithContext(ctx).
		Model(&models.BarberService{}).
		Where("barber_id = ? AND service_id = ?", barberID, serviceID).
		Count(&match).Error; err != nil {
		return false, err
	}

	return match > 0, nil
}

// --------------------------------------------------
// Availability inputs
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorkingDay(
	ctx context.Context,
	barberID uint,
	weekday int,
) (scheduling.WorkingDay, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			// sem configuração = dia fechado
			return scheduling.WorkingDay{Weekday: weekday, Open: false}, nil
		}
		return scheduling.WorkingDay{}, err
	}

	return scheduling.WorkingDayFromModel(wh), nil
}

func (r *SchedulingGormRepository) ListHolidays(
	ctx context.Context,
	barbershopID uint,
) (map[string]bool, error) {

	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Find(&holidays).Error; err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h.Date] = true
	}
	return set, nil
}

func (r *SchedulingGormRepository) ListDayAppointments(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]scheduling.Busy, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where(
			"barber_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			barberID, string(scheduling.StatusCancelled), dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	busy := make([]scheduling.Busy, 0, len(aps))
	for _, ap := range aps {
		busy = append(busy, scheduling.Busy{
			AppointmentID: ap.ID,
			Start:         ap.StartTime,
			End:           ap.EndTime,
		})
	}
	return busy, nil
}

// --------------------------------------------------
// Policy
// --------------------------------------------------

func (r *SchedulingGormRepository) GetProviderPolicy(
	ctx context.Context,
	barberID uint,
) (scheduling.ProviderPolicy, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).First(&barber, barberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return scheduling.ProviderPolicy{}, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return scheduling.ProviderPolicy{}, err
	}

	return scheduling.ProviderPolicy{
		AutoConfirm:               barber.AutoConfirm,
		CancellationCutoffMinutes: barber.CancellationCutoffMinutes,
	}, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *SchedulingGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment (write path)
// --------------------------------------------------

// CreateAppointment é o check-then-write atômico: lock das linhas
// conflitantes + insert na mesma transação. A constraint de exclusão
// do Postgres é o backstop caso duas transações escapem do lock.
func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if ap.BarberID != nil {
			var conflicts []models.Appointment
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(
					"barber_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
					*ap.BarberID, string(scheduling.StatusCancelled), ap.EndTime, ap.StartTime,
				).
				Find(&conflicts).Error; err != nil {
				return err
			}

			if len(conflicts) > 0 {
				return httperr.ErrBusiness(httperr.CodeSlotConflict)
			}
		}

		return tx.Create(ap).Error
	})

	return translateWriteError(err)
}

func (r *SchedulingGormRepository) GetAppointment(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := r.db.WithContext(ctx).Save(ap).Error
	return translateWriteError(err)
}

// UpdateAppointmentInstant move o agendamento com a mesma re-validação
// de conflito do create; em conflito nada é mutado.
func (r *SchedulingGormRepository) UpdateAppointmentInstant(
	ctx context.Context,
	ap *models.Appointment,
	newStart time.Time,
	newEnd time.Time,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if ap.BarberID != nil {
			var conflicts []models.Appointment
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(
					"barber_id = ? AND id <> ? AND status <> ? AND start_time < ? AND end_time > ?",
					*ap.BarberID, ap.ID, string(scheduling.StatusCancelled), newEnd, newStart,
				).
				Find(&conflicts).Error; err != nil {
				return err
			}

			if len(conflicts) > 0 {
				return httperr.ErrBusiness(httperr.CodeSlotConflict)
			}
		}

		ap.StartTime = newStart
		ap.EndTime = newEnd
		return tx.Save(ap).Error
	})

	return translateWriteError(err)
}

// --------------------------------------------------
// Payment recording
// --------------------------------------------------

func (r *SchedulingGormRepository) RecordPaymentState(
	ctx context.Context,
	publicID string,
	method string,
	status string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	if method != "" {
		ap.PaymentMethod = method
	}
	ap.PaymentStatus = status

	if err := r.db.WithContext(ctx).Save(&ap).Error; err != nil {
		return nil, translateWriteError(err)
	}

	return &ap, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *SchedulingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID, start, end,
		).
		Order("start_time ASC").
		Find(&aps).Error

	if err != nil {
		return nil, err
	}

	return aps, nil
}

// --------------------------------------------------

// Conflito vindo da constraint vira slot_conflict; o resto do caminho
// de escrita é sinalizado como retryable, nunca absorvido.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
		return err
	}
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSlotConflict)
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return httperr.Retryable(err)
}

// Compile-time check
var _ scheduling.Repository = (*SchedulingGormRepository)(nil)

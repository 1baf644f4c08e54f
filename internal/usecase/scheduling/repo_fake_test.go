package scheduling

import (
	"context"
	"sync"
	"time"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

type dayKey struct {
	barberID uint
	weekday  int
}

// fakeRepo honra o mesmo contrato de atomicidade exigido do banco real:
// checagem de conflito e insert sob o mesmo lock.
type fakeRepo struct {
	mu sync.Mutex

	shop         *models.Barbershop
	services     map[uint]*models.Service
	capabilities map[uint][]uint
	workingDays  map[dayKey]domain.WorkingDay
	holidays     map[string]bool
	policies     map[uint]domain.ProviderPolicy

	clients      []*models.Client
	appointments []*models.Appointment
	nextID       uint

	errShop       error
	errWorkingDay error
	errListDay    error
	errHolidays   error
	errCreate     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		shop: &models.Barbershop{
			ID:                1,
			Name:              "Navalha de Ouro",
			Slug:              "navalha-de-ouro",
			Timezone:          "America/Sao_Paulo",
			MinAdvanceMinutes: 120,
			SlotMinutes:       30,
		},
		services:     map[uint]*models.Service{},
		capabilities: map[uint][]uint{},
		workingDays:  map[dayKey]domain.WorkingDay{},
		holidays:     map[string]bool{},
		policies:     map[uint]domain.ProviderPolicy{},
	}
}

func (f *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	if f.errShop != nil {
		return nil, f.errShop
	}
	if f.shop == nil || f.shop.ID != id {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return f.shop, nil
}

func (f *fakeRepo) GetService(_ context.Context, _ uint, serviceID uint) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return svc, nil
}

func (f *fakeRepo) BarberPerformsService(_ context.Context, barberID, serviceID uint) (bool, error) {
	allowed, ok := f.capabilities[barberID]
	if !ok {
		return true, nil
	}
	for _, id := range allowed {
		if id == serviceID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetWorkingDay(_ context.Context, barberID uint, weekday int) (domain.WorkingDay, error) {
	if f.errWorkingDay != nil {
		return domain.WorkingDay{}, f.errWorkingDay
	}
	wd, ok := f.workingDays[dayKey{barberID, weekday}]
	if !ok {
		return domain.WorkingDay{Weekday: weekday, Open: false}, nil
	}
	return wd, nil
}

func (f *fakeRepo) ListHolidays(_ context.Context, _ uint) (map[string]bool, error) {
	if f.errHolidays != nil {
		return nil, f.errHolidays
	}
	return f.holidays, nil
}

func (f *fakeRepo) ListDayAppointments(_ context.Context, barberID uint, dayStart, dayEnd time.Time) ([]domain.Busy, error) {
	if f.errListDay != nil {
		return nil, f.errListDay
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var busy []domain.Busy
	for _, ap := range f.appointments {
		if ap.BarberID == nil || *ap.BarberID != barberID {
			continue
		}
		if ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, dayStart, dayEnd) {
			busy = append(busy, domain.Busy{
				AppointmentID: ap.ID,
				Start:         ap.StartTime,
				End:           ap.EndTime,
			})
		}
	}
	return busy, nil
}

func (f *fakeRepo) GetProviderPolicy(_ context.Context, barberID uint) (domain.ProviderPolicy, error) {
	return f.policies[barberID], nil
}

func (f *fakeRepo) GetOrCreateClient(_ context.Context, barbershopID uint, name, phone, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.clients {
		if c.Phone == phone {
			return c, nil
		}
	}

	client := &models.Client{
		ID:           uint(len(f.clients) + 1),
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}
	f.clients = append(f.clients, client)
	return client, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if f.errCreate != nil {
		return httperr.Retryable(f.errCreate)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if ap.BarberID != nil {
		for _, existing := range f.appointments {
			if existing.BarberID == nil || *existing.BarberID != *ap.BarberID {
				continue
			}
			if existing.Status == string(domain.StatusCancelled) {
				continue
			}
			if domain.Overlaps(ap.StartTime, ap.EndTime, existing.StartTime, existing.EndTime) {
				return httperr.ErrBusiness(httperr.CodeSlotConflict)
			}
		}
	}

	f.nextID++
	ap.ID = f.nextID
	ap.CreatedAt = time.Now()
	ap.UpdatedAt = ap.CreatedAt

	stored := *ap
	f.appointments = append(f.appointments, &stored)
	return nil
}

func (f *fakeRepo) GetAppointment(_ context.Context, barbershopID, appointmentID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ap := range f.appointments {
		if ap.ID == appointmentID && ap.BarbershopID == barbershopID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, existing := range f.appointments {
		if existing.ID == ap.ID {
			cp := *ap
			cp.UpdatedAt = time.Now()
			f.appointments[i] = &cp
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) UpdateAppointmentInstant(_ context.Context, ap *models.Appointment, newStart, newEnd time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ap.BarberID != nil {
		for _, existing := range f.appointments {
			if existing.ID == ap.ID {
				continue
			}
			if existing.BarberID == nil || *existing.BarberID != *ap.BarberID {
				continue
			}
			if existing.Status == string(domain.StatusCancelled) {
				continue
			}
			if domain.Overlaps(newStart, newEnd, existing.StartTime, existing.EndTime) {
				return httperr.ErrBusiness(httperr.CodeSlotConflict)
			}
		}
	}

	for i, existing := range f.appointments {
		if existing.ID == ap.ID {
			cp := *existing
			cp.StartTime = newStart
			cp.EndTime = newEnd
			cp.UpdatedAt = time.Now()
			f.appointments[i] = &cp
			ap.StartTime = newStart
			ap.EndTime = newEnd
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) RecordPaymentState(_ context.Context, publicID, method, status string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, ap := range f.appointments {
		if ap.PublicID == publicID {
			cp := *ap
			if method != "" {
				cp.PaymentMethod = method
			}
			cp.PaymentStatus = status
			f.appointments[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.BarberID != nil && *ap.BarberID == barberID &&
			!ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/dto"
	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/middleware"
	"github.com/NavalhaApps/agenda-api/internal/models"
	"github.com/NavalhaApps/agenda-api/internal/timezone"
	ucScheduling "github.com/NavalhaApps/agenda-api/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db     *gorm.DB
	facade *ucScheduling.Facade
}

func NewAppointmentHandler(db *gorm.DB, facade *ucScheduling.Facade) *AppointmentHandler {
	return &AppointmentHandler{
		db:     db,
		facade: facade,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientName    string `json:"client_name" binding:"required"`
	ClientPhone   string `json:"client_phone" binding:"required"`
	ClientEmail   string `json:"client_email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	Observations  string `json:"observations"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	result, err := h.facade.ListAvailableTimes(
		c.Request.Context(),
		ucScheduling.AvailabilityInput{
			BarbershopID: barbershopID,
			BarberID:     barberID,
			ServiceID:    uint(serviceID),
			Date:         date,
		},
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	outcome, err := h.facade.BookAppointment(
		c.Request.Context(),
		ucScheduling.BookAppointmentInput{
			BarbershopID:  barbershopID,
			BarberID:      &barberID,
			ClientName:    req.ClientName,
			ClientPhone:   req.ClientPhone,
			ClientEmail:   req.ClientEmail,
			ServiceID:     req.ServiceID,
			Date:          req.Date,
			Time:          req.Time,
			PaymentMethod: req.PaymentMethod,
			Observations:  req.Observations,
		},
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	if outcome.ErrorCode != "" {
		if outcome.ErrorCode == httperr.CodeSlotConflict {
			// devolve a grade corrente para o caller re-exibir
			c.JSON(http.StatusConflict, gin.H{
				"error_code":           outcome.ErrorCode,
				"message":              "Conflito de horário.",
				"current_availability": outcome.CurrentAvailability,
			})
			return
		}
		writeBusinessCode(c, outcome.ErrorCode)
		return
	}

	c.JSON(http.StatusCreated, outcome.Appointment)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	date, err := parseDateInShop(&shop, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	var aps []models.Appointment
	h.db.
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID, start.UTC(), end.UTC(),
		).
		Order("start_time ASC").
		Find(&aps)

	c.JSON(http.StatusOK, dto.FromAppointments(aps))
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	barberID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	var shop models.Barbershop
	if err := h.db.First(&shop, barbershopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	loc := timezone.Location(shop.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	var aps []models.Appointment
	h.db.
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID, start.UTC(), end.UTC(),
		).
		Order("start_time ASC").
		Find(&aps)

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": dto.FromAppointments(aps),
	})
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	h.transition(c, domain.Status(req.Status))
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, domain.StatusCancelled)
}

func (h *AppointmentHandler) transition(c *gin.Context, target domain.Status) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	role, _ := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Agendamento inválido.")
		return
	}

	outcome, err := h.facade.ChangeAppointmentStatus(
		c.Request.Context(),
		ucScheduling.ChangeStatusInput{
			BarbershopID:  barbershopID,
			AppointmentID: uint(id),
			Target:        target,
			Role:          domain.ActorRole(role),
			ActorID:       &actorID,
		},
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	if outcome.ErrorCode != "" {
		writeBusinessCode(c, outcome.ErrorCode)
		return
	}

	c.JSON(http.StatusOK, outcome.Appointment)
}

// ======================================================
// RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Agendamento inválido.")
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	outcome, err := h.facade.RescheduleAppointment(
		c.Request.Context(),
		ucScheduling.RescheduleInput{
			BarbershopID:  barbershopID,
			AppointmentID: uint(id),
			Date:          req.Date,
			Time:          req.Time,
			ActorID:       &actorID,
		},
	)
	if err != nil {
		writeSchedulingError(c, err)
		return
	}

	if outcome.ErrorCode != "" {
		writeBusinessCode(c, outcome.ErrorCode)
		return
	}

	c.JSON(http.StatusOK, outcome.Appointment)
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/models"
	ucScheduling "github.com/NavalhaApps/agenda-api/internal/usecase/scheduling"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db     *gorm.DB
	facade *ucScheduling.Facade
}

func NewPublicHandler(db *gorm.DB, facade *ucScheduling.Facade) *PublicHandler {
	return &PublicHandler{
		db:     db,
		facade: facade,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`

	// Opcional: sem preferência, o agendamento entra sem barbeiro
	BarberID *uint `json:"barber_id"`

	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:mm

	PaymentMethod string `json:"payment_method"`
	Observations  string `json:"observations"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("barbershop_id = ? AND active = true", shop.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"services":   services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
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
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	barber, err := h.resolveBarber(&shop, c.Query("barber_id"))
	if err != nil {
		httperr.BadRequest(c, "barber_not_found", "Barbeiro não encontrado.")
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
			BarbershopID: shop.ID,
			BarberID:     barber.ID,
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

////////////////////////////////////////////////////////
// CREATE APPOINTMENT (PUBLIC → REUSA O NÚCLEO)
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	slug := c.Param("slug")

	var shop models.Barbershop
	if err := h.db.Where("slug = ?", slug).First(&shop).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbearia não encontrada.")
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	barberID := req.BarberID
	if barberID != nil {
		var barber models.User
		if err := h.db.
			Where("id = ? AND barbershop_id = ?", *barberID, shop.ID).
			First(&barber).Error; err != nil {

			httperr.BadRequest(c, "barber_not_found", "Barbeiro não encontrado.")
			return
		}
	}

	outcome, err := h.facade.BookAppointment(
		c.Request.Context(),
		ucScheduling.BookAppointmentInput{
			BarbershopID:  shop.ID,
			BarberID:      barberID,
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

// resolveBarber escolhe o barbeiro consultado: o pedido na query ou o
// owner da barbearia como padrão.
func (h *PublicHandler) resolveBarber(shop *models.Barbershop, barberIDStr string) (*models.User, error) {
	var barber models.User

	if barberIDStr != "" {
		id, err := strconv.ParseUint(barberIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		if err := h.db.
			Where("id = ? AND barbershop_id = ?", id, shop.ID).
			First(&barber).Error; err != nil {
			return nil, err
		}
		return &barber, nil
	}

	if err := h.db.
		Where("barbershop_id = ? AND role = ?", shop.ID, "owner").
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
	"github.com/NavalhaApps/agenda-api/internal/middleware"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

type HolidayHandler struct {
	db *gorm.DB
}

func NewHolidayHandler(db *gorm.DB) *HolidayHandler {
	return &HolidayHandler{db: db}
}

type CreateHolidayRequest struct {
	Date  string `json:"date" binding:"required"` // 2006-01-02
	Label string `json:"label"`
}

func (h *HolidayHandler) List(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var holidays []models.Holiday
	if err := h.db.
		Where("barbershop_id = ?", barbershopID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {

		httperr.Internal(c, "failed_to_list_holidays", "Erro ao listar feriados.")
		return
	}

	c.JSON(http.StatusOK, holidays)
}

func (h *HolidayHandler) Create(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)

	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida (use 2006-01-02).")
		return
	}

	holiday := models.Holiday{
		BarbershopID: barbershopID,
		Date:         req.Date,
		Label:        req.Label,
	}

	if err := h.db.Create(&holiday).Error; err != nil {
		httperr.Internal(c, "failed_to_create_holiday", "Erro ao salvar feriado.")
		return
	}

	c.JSON(http.StatusCreated, holiday)
}

func (h *HolidayHandler) Delete(c *gin.Context) {
	barbershopID := c.MustGet(middleware.ContextBarbershopID).(uint)
	id := c.Param("id")

	res := h.db.
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		Delete(&models.Holiday{})

	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_holiday", "Erro ao remover feriado.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "holiday_not_found", "Feriado não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

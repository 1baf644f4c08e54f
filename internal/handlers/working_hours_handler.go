package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/middleware"
	"github.com/NavalhaApps/agenda-api/internal/models"
)

// ConfigInvalidator derruba as entradas de cache de configuração do
// prestador depois de uma escrita.
type ConfigInvalidator interface {
	InvalidateWorkingHours(ctx context.Context, barberID uint)
	InvalidatePolicy(ctx context.Context, barberID uint)
}

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache ConfigInvalidator
}

func NewWorkingHoursHandler(db *gorm.DB, cache ConfigInvalidator) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: cache}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	Active     bool   `json:"active"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start"`
	BreakEnd   string `json:"break_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	userIDVal, _ := c.Get(middleware.ContextUserID)
	barberID := userIDVal.(uint)

	var hours []models.WorkingHours
	if err := h.db.
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	userIDVal, _ := c.Get(middleware.ContextUserID)
	barberID := userIDVal.(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// valida antes de apagar qualquer coisa
	for _, d := range req.Days {
		wd := domain.WorkingDay{
			Weekday:    d.Weekday,
			Open:       d.Active,
			Start:      d.StartTime,
			End:        d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		}
		if err := wd.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_working_hours",
				"weekday": d.Weekday,
			})
			return
		}
	}

	if err := h.db.Where("barber_id = ?", barberID).Delete(&models.WorkingHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.WorkingHours
	for _, d := range req.Days {
		wh := models.WorkingHours{
			BarberID:   barberID,
			Weekday:    d.Weekday,
			Active:     d.Active,
			StartTime:  d.StartTime,
			EndTime:    d.EndTime,
			BreakStart: d.BreakStart,
			BreakEnd:   d.BreakEnd,
		}
		toCreate = append(toCreate, wh)
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
			return
		}
	}

	if h.cache != nil {
		h.cache.InvalidateWorkingHours(c.Request.Context(), barberID)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// POLÍTICA DO PRESTADOR
// ======================================================

type UpdatePolicyRequest struct {
	AutoConfirm               *bool `json:"auto_confirm"`
	CancellationCutoffMinutes *int  `json:"cancellation_cutoff_minutes"`
}

func (h *WorkingHoursHandler) UpdatePolicy(c *gin.Context) {
	userIDVal, _ := c.Get(middleware.ContextUserID)
	barberID := userIDVal.(uint)

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	if err := h.db.First(&user, barberID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	if req.AutoConfirm != nil {
		user.AutoConfirm = *req.AutoConfirm
	}
	if req.CancellationCutoffMinutes != nil {
		if *req.CancellationCutoffMinutes < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cancellation_cutoff"})
			return
		}
		user.CancellationCutoffMinutes = *req.CancellationCutoffMinutes
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_policy"})
		return
	}

	if h.cache != nil {
		h.cache.InvalidatePolicy(c.Request.Context(), barberID)
	}

	c.JSON(http.StatusOK, gin.H{
		"auto_confirm":                user.AutoConfirm,
		"cancellation_cutoff_minutes": user.CancellationCutoffMinutes,
	})
}

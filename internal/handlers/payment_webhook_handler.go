package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
	"github.com/NavalhaApps/agenda-api/internal/payments"
)

// PaymentWebhookHandler recebe notificações do Mercado Pago e registra
// o estado bruto de pagamento no agendamento (external_reference =
// public_id). O estado exibido continua sendo derivado na leitura.
type PaymentWebhookHandler struct {
	repo    domain.Repository
	gateway payments.Gateway
}

func NewPaymentWebhookHandler(repo domain.Repository, gateway payments.Gateway) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		repo:    repo,
		gateway: gateway,
	}
}

type mercadoPagoNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Handle responde 200 para tudo que não é acionável: o Mercado Pago
// re-entrega em qualquer status >= 400.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	var notif mercadoPagoNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if notif.Type != "payment" || notif.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.Atoi(notif.Data.ID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	info, err := h.gateway.LookupPayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Error().Err(err).Int("payment_id", paymentID).Msg("payment lookup failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "retry"})
		return
	}

	if info.ExternalReference == "" {
		log.Warn().Int("payment_id", paymentID).Msg("payment without external reference")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ap, err := h.repo.RecordPaymentState(
		c.Request.Context(),
		info.ExternalReference,
		info.Method,
		info.Status,
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("public_id", info.ExternalReference).
			Msg("failed to record payment state")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "retry"})
		return
	}

	log.Info().
		Str("public_id", ap.PublicID).
		Str("payment_status", info.Status).
		Msg("payment state recorded")

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	domain "github.com/NavalhaApps/agenda-api/internal/domain/scheduling"
)

// PaymentInfo é o recorte do pagamento que o núcleo de agendamento
// precisa: referência externa (PublicID do agendamento) e o estado já
// traduzido para o vocabulário de domínio.
type PaymentInfo struct {
	ExternalReference string
	Status            string
	Method            string
	Amount            float64
}

// Gateway abstrai o provedor de pagamento; o webhook só conhece esta
// interface.
type Gateway interface {
	LookupPayment(ctx context.Context, paymentID int) (*PaymentInfo, error)
}

// ======================================================
// MERCADO PAGO
// ======================================================

type MercadoPagoGateway struct {
	client payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) LookupPayment(ctx context.Context, paymentID int) (*PaymentInfo, error) {
	resp, err := g.client.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment %d: %w", paymentID, err)
	}

	return &PaymentInfo{
		ExternalReference: resp.ExternalReference,
		Status:            MapStatus(resp.Status),
		Method:            MapMethod(resp.PaymentMethodID, resp.PaymentTypeID),
		Amount:            resp.TransactionAmount,
	}, nil
}

var _ Gateway = (*MercadoPagoGateway)(nil)

// MapStatus traduz o status do Mercado Pago para o vocabulário de
// domínio. Status desconhecido fica "pending": o resolvedor de estado
// de pagamento trata pendente como o caso conservador.
func MapStatus(mpStatus string) string {
	switch mpStatus {
	case "approved":
		return string(domain.PaymentPaid)
	case "pending", "in_process", "authorized":
		return string(domain.PaymentPending)
	case "rejected", "cancelled":
		return string(domain.PaymentFailed)
	case "refunded", "charged_back":
		return string(domain.PaymentRefunded)
	default:
		return string(domain.PaymentPending)
	}
}

// MapMethod traduz método/tipo do Mercado Pago. Todo pagamento online
// que não é pix nem cartão entra como pagamento antecipado genérico.
func MapMethod(methodID, typeID string) string {
	if methodID == "pix" {
		return string(domain.MethodPix)
	}
	switch typeID {
	case "credit_card", "debit_card", "prepaid_card":
		return string(domain.MethodCard)
	default:
		return string(domain.MethodAdvance)
	}
}

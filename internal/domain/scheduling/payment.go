package scheduling

// ===============================
// Payment
// ===============================

type PaymentMethod string

const (
	MethodAdvance PaymentMethod = "advance"
	MethodLocal   PaymentMethod = "local"
	MethodCash    PaymentMethod = "cash"
	MethodCard    PaymentMethod = "card"
	MethodPix     PaymentMethod = "pix"
)

// PaymentStatus é o estado bruto registrado por um evento explícito de
// pagamento (webhook do gateway). Vazio = nenhum pagamento registrado.
type PaymentStatus string

const (
	PaymentNone     PaymentStatus = ""
	PaymentPaid     PaymentStatus = "paid"
	PaymentPending  PaymentStatus = "pending"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// DisplayPaymentState é derivado, nunca persistido como fonte de verdade.
type DisplayPaymentState string

const (
	StateUnpaid         DisplayPaymentState = "UNPAID"
	StatePaidAdvance    DisplayPaymentState = "PAID_ADVANCE"
	StatePaid           DisplayPaymentState = "PAID"
	StatePending        DisplayPaymentState = "PENDING"
	StateFailed         DisplayPaymentState = "FAILED"
	StateRefunded       DisplayPaymentState = "REFUNDED"
	StatePayAtLocation  DisplayPaymentState = "PAY_AT_LOCATION"
	StatePaidAtLocation DisplayPaymentState = "PAID_AT_LOCATION"
	StateCancelled      DisplayPaymentState = "CANCELLED"
)

// ResolvePaymentState deriva o estado exibido a partir de status do
// agendamento, método e estado bruto de pagamento. A ORDEM das regras é
// contrato testado: a primeira que casar vence. Todo consumidor de
// status de pagamento chama esta função em vez de re-derivar.
func ResolvePaymentState(status Status, method PaymentMethod, payment PaymentStatus) DisplayPaymentState {
	// 1. concluído sem pagamento registrado e sem pré-pagamento → cobrar
	if status == StatusCompleted && payment == PaymentNone && method != MethodAdvance {
		return StateUnpaid
	}

	// 2. pré-pago vence qualquer inferência por status
	if method == MethodAdvance {
		return StatePaidAdvance
	}

	// 3–6. estado explícito registrado por evento de pagamento
	switch payment {
	case PaymentPaid:
		return StatePaid
	case PaymentPending:
		return StatePending
	case PaymentFailed:
		return StateFailed
	case PaymentRefunded:
		return StateRefunded
	}

	// 7–9. inferência por status do agendamento
	switch status {
	case StatusPending, StatusConfirmed:
		return StatePayAtLocation
	case StatusCompleted:
		return StatePaidAtLocation
	case StatusCancelled:
		return StateCancelled
	}

	// 10. fallback
	return StatePayAtLocation
}

package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/NavalhaApps/agenda-api/internal/httperr"
)

// writeBusinessCode traduz um código de erro de negócio do núcleo de
// agendamento para a resposta HTTP correspondente.
func writeBusinessCode(c *gin.Context, code string) {
	switch code {
	case httperr.CodeSlotConflict:
		httperr.Conflict(c, code, "Conflito de horário.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, code, "Registro não encontrado.")
	case httperr.CodeInvalidTransition:
		httperr.BadRequest(c, code, "Transição de status inválida.")
	case httperr.CodeCancellationCutoff:
		httperr.BadRequest(c, code, "Fora da janela de cancelamento.")
	case httperr.CodeTooSoon:
		httperr.BadRequest(c, code, "Horário inválido.")
	case httperr.CodeOutsideWorkingHours:
		httperr.BadRequest(c, code, "Fora do horário de atendimento.")
	case httperr.CodeProviderIncapable:
		httperr.BadRequest(c, code, "Barbeiro não executa este serviço.")
	case httperr.CodeDataSourceUnavailable:
		httperr.ServiceUnavailable(c, code, "Fonte de dados indisponível.")
	default:
		httperr.BadRequest(c, code, "Requisição inválida.")
	}
}

// writeSchedulingError cobre os dois ramos de erro dos usecases:
// negócio e infraestrutura.
func writeSchedulingError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		writeBusinessCode(c, be.Code)
		return
	}

	if httperr.IsRetryable(err) {
		httperr.ServiceUnavailable(c, "datasource_unavailable", "Tente novamente em instantes.")
		return
	}

	httperr.Internal(c, "internal_error", "Erro interno.")
}

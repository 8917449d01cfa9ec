package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

// writeBusinessError traduz um código de negócio do fluxo de reserva em
// resposta HTTP. Devolve false se o erro não for de negócio (o chamador
// trata como interno).
func writeBusinessError(c *gin.Context, err error) bool {
	switch httperr.BusinessCode(err) {

	case httperr.CodeValidation:
		httperr.BadRequest(c, httperr.CodeValidation, "Dados inválidos.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, httperr.CodeNotFound, "Registro não encontrado.")
	case httperr.CodeSlotUnavailable:
		httperr.Conflict(c, httperr.CodeSlotUnavailable, "Horário indisponível.")
	case httperr.CodeTooSoon:
		httperr.BadRequest(c, httperr.CodeTooSoon, "Horário inválido.")
	case httperr.CodeOutsideHours:
		httperr.BadRequest(c, httperr.CodeOutsideHours, "Fora do horário de atendimento.")
	case httperr.CodeIntervalOverlap:
		httperr.Conflict(c, httperr.CodeIntervalOverlap, "Intervalo sobrepõe um bloqueio existente.")
	case httperr.CodeNotPayable:
		httperr.Unprocessable(c, httperr.CodeNotPayable, "Profissional ainda não pode receber pagamentos.")
	case httperr.CodeInvalidState:
		httperr.BadRequest(c, httperr.CodeInvalidState, "Reserva não permite essa operação.")
	case httperr.CodePriceResolution:
		httperr.BadGateway(c, httperr.CodePriceResolution, "Erro ao preparar o preço no processador.")
	case httperr.CodeProcessorError:
		httperr.BadGateway(c, httperr.CodeProcessorError, "Erro no processador de pagamentos.")
	case httperr.CodePaymentNotSettled:
		httperr.Unprocessable(c, httperr.CodePaymentNotSettled, "Pagamento ainda não liquidado.")
	case httperr.CodeAlreadySettled:
		httperr.Conflict(c, httperr.CodeAlreadySettled, "Pagamento já liquidado.")
	case httperr.CodeAuthzDenied:
		httperr.Forbidden(c, httperr.CodeAuthzDenied, "Acesso negado.")

	default:
		return false
	}
	return true
}

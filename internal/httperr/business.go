package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extrai o código de negócio de um erro (vazio se não houver).
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Códigos usados pelo fluxo de reserva/pagamento.
const (
	CodeValidation        = "validation_error"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeNotFound          = "not_found"
	CodeNotPayable        = "not_payable"
	CodeAuthzDenied       = "authorization_denied"
	CodeProcessorError    = "external_processor_error"
	CodePriceResolution   = "price_resolution_failed"
	CodePaymentNotSettled = "payment_not_settled"
	CodeAlreadySettled    = "already_settled"
	CodeInvalidState      = "invalid_state"
	CodeIntervalOverlap   = "interval_overlap"
	CodeTooSoon           = "too_soon"
	CodeOutsideHours      = "outside_working_hours"
)

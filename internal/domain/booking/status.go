package booking

import "github.com/BruksfildServices01/beauty-marketplace/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
	StatusCompleted Status = "completed"
	StatusRefunded  Status = "refunded"
)

// ActiveStatuses são os status que seguram um slot: uma reserva pendente
// ainda não paga já bloqueia o horário.
var ActiveStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
}

// HoldsSlot diz se uma reserva neste status ocupa o horário dela.
func HoldsSlot(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Transições
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanFail(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func CanRefund(current Status) error {
	if current != StatusConfirmed && current != StatusCompleted {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}

package booking

import (
	"time"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm aplica pending → confirmed. Chamar sobre uma reserva já confirmada
// é um no-op (a confirmação do checkout precisa ser idempotente).
func Confirm(b *models.Booking, now time.Time) error {
	if Status(b.Status) == StatusConfirmed {
		return nil
	}
	if err := CanConfirm(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusConfirmed)
	b.ConfirmedAt = &now
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

// Fail marca a reserva como falha de pagamento. A linha permanece no banco
// como trilha de auditoria; nunca é apagada.
func Fail(b *models.Booking, now time.Time) error {
	if err := CanFail(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusFailed)
	b.FailedAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func Refund(b *models.Booking) error {
	if err := CanRefund(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusRefunded)
	return nil
}

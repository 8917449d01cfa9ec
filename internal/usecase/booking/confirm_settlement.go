package booking

import (
	"context"
	"log"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/notify"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

type ConfirmSettlement struct {
	repo     domain.Repository
	router   *payments.Router
	notifier *notify.Dispatcher
	audit    *audit.Dispatcher

	feePercent int64
}

func NewConfirmSettlement(
	repo domain.Repository,
	router *payments.Router,
	notifier *notify.Dispatcher,
	audit *audit.Dispatcher,
	feePercent int64,
) *ConfirmSettlement {
	return &ConfirmSettlement{
		repo:       repo,
		router:     router,
		notifier:   notifier,
		audit:      audit,
		feePercent: feePercent,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute fecha o ciclo no retorno do checkout. É idempotente: chamar duas
// vezes com o mesmo (bookingID, sessionID) devolve a mesma reserva
// confirmada sem duplicar receita e sem erro.
func (uc *ConfirmSettlement) Execute(
	ctx context.Context,
	bookingID uint,
	transactionID string,
	sessionID string,
) (*models.Booking, error) {

	if bookingID == 0 || transactionID == "" || sessionID == "" {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// O retorno é um redirect sem autenticação; o par (booking, tx) da URL
	// autodescritiva é o que prova que o chamador veio do checkout certo.
	if b.TransactionID != transactionID {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// A sessão gravada na reserva é a chave de reconciliação; retorno com
	// sessão de outra reserva é entrada inválida, não estado.
	if b.CheckoutSessionID == nil || *b.CheckoutSessionID != sessionID {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	switch domain.Status(b.Status) {
	case domain.StatusConfirmed, domain.StatusCompleted:
		// Reconfirmação (refresh na página de sucesso): no-op.
		return b, nil
	case domain.StatusPending:
		// segue
	default:
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	// --------------------------------------------------
	// Reconsulta a sessão no processador
	// --------------------------------------------------
	acct, err := uc.repo.GetExternalAccount(ctx, b.ProfessionalID)
	if err != nil {
		return nil, err
	}

	status, err := uc.router.GetCheckout(ctx, acct.Provider, sessionID)
	if err != nil {
		if httperr.BusinessCode(err) != "" {
			return nil, err
		}
		log.Printf("settlement: processor error for booking %d: %v", b.ID, err)
		return nil, httperr.ErrBusiness(httperr.CodeProcessorError)
	}

	pro, err := uc.repo.GetProfessionalByID(ctx, b.ProfessionalID)
	if err != nil {
		return nil, err
	}
	now := timezone.NowIn(pro.Timezone)

	switch status.State {

	case payments.StatePaid:
		gross := payments.ToMinorUnits(b.TotalAmount)
		fee := payments.PlatformFee(gross, uc.feePercent)

		confirmed, err := uc.repo.ConfirmBookingTx(
			ctx,
			b.ID,
			func(locked *models.Booking) error {
				return domain.Confirm(locked, now)
			},
			&models.LedgerEntry{
				ProfessionalID: b.ProfessionalID,
				GrossCents:     gross,
				FeeCents:       fee,
				NetCents:       gross - fee,
			},
		)
		if err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			ProfessionalID: confirmed.ProfessionalID,
			Action:         "booking_confirmed",
			Entity:         "booking",
			EntityID:       &confirmed.ID,
		})

		// Notificação nunca falha nem desfaz a confirmação.
		uc.notifier.BookingConfirmed(confirmed)

		return confirmed, nil

	case payments.StateAbandoned:
		if err := domain.Cancel(b, now); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateBooking(ctx, b); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			ProfessionalID: b.ProfessionalID,
			Action:         "booking_abandoned",
			Entity:         "booking",
			EntityID:       &b.ID,
		})
		return b, nil

	case payments.StateFailed:
		if err := domain.Fail(b, now); err != nil {
			return nil, err
		}
		if err := uc.repo.UpdateBooking(ctx, b); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			ProfessionalID: b.ProfessionalID,
			Action:         "booking_payment_failed",
			Entity:         "booking",
			EntityID:       &b.ID,
		})
		return b, nil

	default:
		// Sessão ainda aberta: reserva continua pendente, cliente pode
		// voltar ao checkout.
		return nil, httperr.ErrBusiness(httperr.CodePaymentNotSettled)
	}
}

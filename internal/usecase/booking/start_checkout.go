package booking

import (
	"context"
	"fmt"
	"log"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	svcuc "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/service"
)

// ======================================================
// USE CASE
// ======================================================

type StartCheckout struct {
	repo     domain.Repository
	router   *payments.Router
	resolver *svcuc.ResolvePrice
	audit    *audit.Dispatcher

	publicBaseURL string
	feePercent    int64
	currency      string
}

func NewStartCheckout(
	repo domain.Repository,
	router *payments.Router,
	resolver *svcuc.ResolvePrice,
	audit *audit.Dispatcher,
	publicBaseURL string,
	feePercent int64,
	currency string,
) *StartCheckout {
	return &StartCheckout{
		repo:          repo,
		router:        router,
		resolver:      resolver,
		audit:         audit,
		publicBaseURL: publicBaseURL,
		feePercent:    feePercent,
		currency:      currency,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute abre a transação de checkout hospedado para uma reserva pendente.
// Qualquer falha aqui deixa a reserva em pending: o cliente pode tentar
// pagar de novo sem revalidar disponibilidade.
func (uc *StartCheckout) Execute(
	ctx context.Context,
	bookingID uint,
	clientID uint,
) (*payments.CheckoutHandle, error) {

	b, err := uc.repo.GetBookingForClient(ctx, bookingID, clientID)
	if err != nil {
		return nil, err
	}

	if domain.Status(b.Status) != domain.StatusPending {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	// --------------------------------------------------
	// Conta conectada utilizável
	// --------------------------------------------------
	acct, err := uc.repo.GetExternalAccount(ctx, b.ProfessionalID)
	if err != nil || !acct.IsPayable() {
		return nil, httperr.ErrBusiness(httperr.CodeNotPayable)
	}

	svc, err := uc.repo.GetService(ctx, b.ProfessionalID, b.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Preço externo resolvido (lazy) quando o provedor tem
	// catálogo; senão o valor vai inline.
	// --------------------------------------------------
	provider := uc.router.Resolve(acct.Provider)

	priceRef := ""
	if _, ok := uc.router.Catalog(provider); ok {
		priceRef, err = uc.resolver.Execute(ctx, provider, svc)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodePriceResolution)
		}
	}

	// --------------------------------------------------
	// Split: valor congelado da reserva, taxa da plataforma
	// em centavos arredondada para baixo, resto para o
	// profissional.
	// --------------------------------------------------
	totalCents := payments.ToMinorUnits(b.TotalAmount)
	feeCents := payments.PlatformFee(totalCents, uc.feePercent)

	// URLs de retorno autodescritivas: booking + transaction id permitem
	// reprocessar o retorno de forma idempotente.
	successURL := fmt.Sprintf(
		"%s/api/bookings/confirm?booking_id=%d&tx=%s&session_id={CHECKOUT_SESSION_ID}",
		uc.publicBaseURL, b.ID, b.TransactionID,
	)
	cancelURL := fmt.Sprintf(
		"%s/api/bookings/cancelled?booking_id=%d&tx=%s",
		uc.publicBaseURL, b.ID, b.TransactionID,
	)

	handle, err := uc.router.CreateCheckout(ctx, provider, payments.CheckoutSpec{
		BookingID:          b.ID,
		TransactionID:      b.TransactionID,
		PriceRef:           priceRef,
		Title:              svc.Name,
		Description:        svc.Description,
		AmountCents:        totalCents,
		Currency:           uc.currency,
		FeeCents:           feeCents,
		DestinationAccount: *acct.AccountRef,
		SuccessURL:         successURL,
		CancelURL:          cancelURL,
	})
	if err != nil {
		if httperr.BusinessCode(err) != "" {
			return nil, err
		}
		log.Printf("checkout: processor error for booking %d: %v", b.ID, err)
		return nil, httperr.ErrBusiness(httperr.CodeProcessorError)
	}

	b.CheckoutSessionID = &handle.SessionID
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: b.ProfessionalID,
		UserID:         &clientID,
		Action:         "checkout_started",
		Entity:         "booking",
		EntityID:       &b.ID,
	})

	return handle, nil
}

package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	ClientID       uint
	ProfessionalID uint
	ServiceID      uint

	Date     string // YYYY-MM-DD
	Time     string // HH:mm
	Location string
	Notes    string
}

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReserve(repo domain.Repository, audit *audit.Dispatcher) *Reserve {
	return &Reserve{repo: repo, audit: audit}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// Validação de entrada (antes de qualquer I/O externo)
	// --------------------------------------------------
	if in.ClientID == 0 || in.ProfessionalID == 0 || in.ServiceID == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	pro, err := uc.repo.GetProfessionalByID(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(pro.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeValidation)
	}

	// --------------------------------------------------
	// Serviço pertence ao profissional + preço congelado
	// --------------------------------------------------
	svc, err := uc.repo.GetService(ctx, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if !svc.Active {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	end := start.Add(time.Duration(svc.DurationMin) * time.Minute)

	// --------------------------------------------------
	// Profissional precisa estar apto a receber ANTES de
	// qualquer passo externo: sem conta, nada de reserva
	// pendente órfã.
	// --------------------------------------------------
	acct, err := uc.repo.GetExternalAccount(ctx, in.ProfessionalID)
	if err != nil || !acct.IsPayable() {
		return nil, httperr.ErrBusiness(httperr.CodeNotPayable)
	}

	// --------------------------------------------------
	// Antecedência mínima
	// --------------------------------------------------
	minAdvance := pro.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = 120
	}

	now := timezone.NowIn(pro.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness(httperr.CodeTooSoon)
	}

	// --------------------------------------------------
	// Expediente do dia
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, int(start.Weekday()))
	if err != nil {
		return nil, err
	}

	if !domain.WithinWorkingWindow(start, end, wh) {
		return nil, httperr.ErrBusiness(httperr.CodeOutsideHours)
	}

	// --------------------------------------------------
	// Intervalos bloqueados valem independente de reservas
	// --------------------------------------------------
	blocked, err := uc.repo.ListBlockedIntervals(ctx, in.ProfessionalID, start, end)
	if err != nil {
		return nil, err
	}
	for _, iv := range blocked {
		if domain.InsideBlocked(start, iv) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
		}
	}

	// --------------------------------------------------
	// Compare-and-insert: conflito + criação numa operação
	// --------------------------------------------------
	b := &models.Booking{
		ClientID:       in.ClientID,
		ProfessionalID: in.ProfessionalID,
		ServiceID:      svc.ID,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		Location:       in.Location,
		TotalAmount:    svc.Price,
		TransactionID:  uuid.NewString(),
		Notes:          in.Notes,
	}

	if err := uc.repo.CreateBookingIfFree(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: in.ProfessionalID,
		UserID:         &in.ClientID,
		Action:         "booking_reserved",
		Entity:         "booking",
		EntityID:       &b.ID,
	})

	return b, nil
}

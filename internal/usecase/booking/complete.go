package booking

import (
	"context"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(repo domain.Repository, audit *audit.Dispatcher) *CompleteBooking {
	return &CompleteBooking{repo: repo, audit: audit}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	professionalID uint,
	bookingID uint,
) (*models.Booking, error) {

	pro, err := uc.repo.GetProfessionalByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingForProfessional(ctx, bookingID, professionalID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(pro.Timezone)
	if err := domain.Complete(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: professionalID,
		Action:         "booking_completed",
		Entity:         "booking",
		EntityID:       &b.ID,
	})

	return b, nil
}

package booking

import (
	"context"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelBooking(repo domain.Repository, audit *audit.Dispatcher) *CancelBooking {
	return &CancelBooking{repo: repo, audit: audit}
}

func (uc *CancelBooking) Execute(
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
	if err := domain.Cancel(b, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ProfessionalID: professionalID,
		Action:         "booking_cancelled",
		Entity:         "booking",
		EntityID:       &b.ID,
	})

	return b, nil
}

package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	svc, err := uc.repo.GetService(ctx, in.ProfessionalID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkingHours(ctx, in.ProfessionalID, weekday)
	if err != nil {
		return nil, err
	}

	slotDur := time.Duration(svc.DurationMin) * time.Minute
	candidates := domain.BuildCandidates(in.Date, slotDur, wh)
	if len(candidates) == 0 {
		return []domain.TimeSlot{}, nil
	}

	loc := in.Date.Location()
	dayStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24 * time.Hour)

	blocked, err := uc.repo.ListBlockedIntervals(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	taken, err := uc.repo.ListActiveBookings(ctx, in.ProfessionalID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	free := domain.FilterAvailable(candidates, blocked, taken)

	slots := make([]domain.TimeSlot, 0, len(free))
	for _, at := range free {
		slots = append(slots, domain.TimeSlot{
			Start: at.Format("15:04"),
			End:   at.Add(slotDur).Format("15:04"),
		})
	}

	return slots, nil
}

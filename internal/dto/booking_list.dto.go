package dto

import (
	"time"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

type BookingListDTO struct {
	ID          uint      `json:"id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"total_amount"`
	Location    string    `json:"location"`
	ClientName  string    `json:"client_name"`
	ServiceName string    `json:"service_name"`
}

func ToBookingList(bs []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, BookingListDTO{
			ID:          b.ID,
			StartTime:   b.StartTime,
			EndTime:     b.EndTime,
			Status:      b.Status,
			TotalAmount: b.TotalAmount,
			Location:    b.Location,
			ClientName:  b.Client.Name,
			ServiceName: b.Service.Name,
		})
	}
	return out
}

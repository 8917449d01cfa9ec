package handlers

import (
	"time"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

// --------------------------------------------------
// Timezone centralizado por profissional
// --------------------------------------------------

func locationFromPro(pro *models.Professional) *time.Location {
	if pro != nil {
		return timezone.Location(pro.Timezone)
	}
	return timezone.Location("")
}

func parseDateInPro(pro *models.Professional, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromPro(pro),
	)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

type WorkingHoursHandler struct {
	store *storage.Store
}

func NewWorkingHoursHandler(store *storage.Store) *WorkingHoursHandler {
	return &WorkingHoursHandler{store: store}
}

type WorkingDayConfig struct {
	Weekday    int    `json:"weekday" binding:"min=0,max=6"`
	IsWorking  bool   `json:"is_working"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	LunchStart string `json:"lunch_start"`
	LunchEnd   string `json:"lunch_end"`
}

type WorkingHoursUpdateRequest struct {
	Days []WorkingDayConfig `json:"days" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var hours []models.WorkingHours
	if err := h.store.DB(storage.ScopeCaller).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_working_hours"})
		return
	}

	httpresp.List(c, hours)
}

// Update substitui a grade inteira: apaga tudo e recria. Dias sem linha
// ficam no padrão permissivo (qualquer horário aceito).
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	db := h.store.DB(storage.ScopeCaller)

	if err := db.Where("professional_id = ?", professionalID).Delete(&models.WorkingHours{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_hours"})
		return
	}

	var toCreate []models.WorkingHours
	for _, d := range req.Days {
		wh := models.WorkingHours{
			ProfessionalID: professionalID,
			Weekday:        d.Weekday,
			IsWorking:      d.IsWorking,
			StartTime:      d.StartTime,
			EndTime:        d.EndTime,
			LunchStart:     d.LunchStart,
			LunchEnd:       d.LunchEnd,
		}
		toCreate = append(toCreate, wh)
	}

	if len(toCreate) > 0 {
		if err := db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_working_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

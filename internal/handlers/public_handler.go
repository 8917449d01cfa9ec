package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
	bookinguc "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	store        *storage.Store
	repo         domain.Repository
	availability *bookinguc.GetAvailability
}

func NewPublicHandler(
	store *storage.Store,
	repo domain.Repository,
	availability *bookinguc.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		store:        store,
		repo:         repo,
		availability: availability,
	}
}

////////////////////////////////////////////////////////
// PERFIL + SERVIÇOS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	slug := c.Param("slug")

	var pro models.Professional
	if err := h.store.DB(storage.ScopeCaller).
		Where("slug = ?", slug).First(&pro).Error; err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.store.DB(storage.ScopeCaller).
		Where("professional_id = ? AND active = true", pro.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professional": gin.H{
			"id":      pro.ID,
			"slug":    pro.Slug,
			"phone":   pro.Phone,
			"address": pro.Address,
			"bio":     pro.Bio,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY (REUSO TOTAL DO USE CASE)
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	slug := c.Param("slug")
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")

	if dateStr == "" || serviceIDStr == "" {
		httperr.BadRequest(c, "missing_params", "Data e serviço obrigatórios.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Serviço inválido.")
		return
	}

	pro, err := h.repo.GetProfessionalBySlug(c.Request.Context(), slug)
	if err != nil {
		httperr.NotFound(c, "professional_not_found", "Profissional não encontrado.")
		return
	}

	date, err := parseDateInPro(pro, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		ProfessionalID: pro.ID,
		ServiceID:      uint(serviceID),
		Date:           date,
	})
	if err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_get_availability", "Erro ao calcular disponibilidade.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

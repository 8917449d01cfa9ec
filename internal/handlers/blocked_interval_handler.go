package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httpresp"
	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

type BlockedIntervalHandler struct {
	repo domain.Repository
}

func NewBlockedIntervalHandler(repo domain.Repository) *BlockedIntervalHandler {
	return &BlockedIntervalHandler{repo: repo}
}

type CreateBlockedIntervalRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
	Reason   string    `json:"reason"`
}

func (h *BlockedIntervalHandler) List(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	from := time.Now().AddDate(0, -1, 0)
	to := time.Now().AddDate(0, 3, 0)

	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			from = t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			to = t.Add(24 * time.Hour)
		}
	}

	ivs, err := h.repo.ListBlockedIntervals(c.Request.Context(), professionalID, from, to)
	if err != nil {
		httperr.Internal(c, "failed_to_list_intervals", "Erro ao listar bloqueios.")
		return
	}

	httpresp.List(c, ivs)
}

func (h *BlockedIntervalHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req CreateBlockedIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	iv := &models.BlockedInterval{
		ProfessionalID: professionalID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Reason:         req.Reason,
	}

	if err := h.repo.CreateBlockedInterval(c.Request.Context(), iv); err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_interval", "Erro ao criar bloqueio.")
		return
	}

	c.JSON(http.StatusCreated, iv)
}

func (h *BlockedIntervalHandler) Delete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.repo.DeleteBlockedInterval(c.Request.Context(), professionalID, uint(id)); err != nil {
		if writeBusinessError(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_delete_interval", "Erro ao remover bloqueio.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

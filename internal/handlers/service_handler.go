package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
	svcuc "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/service"
)

type ServiceHandler struct {
	store  *storage.Store
	rotate *svcuc.RotatePrice
}

func NewServiceHandler(store *storage.Store, rotate *svcuc.RotatePrice) *ServiceHandler {
	return &ServiceHandler{store: store, rotate: rotate}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"required"`
	Category    string  `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active")) // "true", "false" ou vazio
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.store.DB(storage.ScopeCaller).Where("professional_id = ?", professionalID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if activeStr != "" {
		if activeStr == "true" {
			q = q.Where("active = ?", true)
		} else if activeStr == "false" {
			q = q.Where("active = ?", false)
		}
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.
		Order("id ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	// Sem referência externa: o preço no processador só nasce na primeira
	// venda.
	svc := models.Service{
		ProfessionalID: professionalID,
		Name:           req.Name,
		Description:    req.Description,
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		Active:         true,
		Category:       strings.ToLower(req.Category),
	}

	if err := h.store.DB(storage.ScopeCaller).Create(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_service"})
		return
	}

	c.JSON(http.StatusCreated, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id := c.Param("id")
	db := h.store.DB(storage.ScopeCaller)

	var svc models.Service
	if err := db.
		Where("id = ? AND professional_id = ?", id, professionalID).
		First(&svc).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	priceChanged := req.Price != nil && *req.Price != svc.Price

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	// Preço mudou e o serviço já tem objeto de preço no processador:
	// cria um novo e desativa o antigo. Reservas pendentes mantêm o
	// valor congelado na criação.
	if priceChanged {
		var acct models.ExternalAccount
		if err := db.Where("professional_id = ?", professionalID).First(&acct).Error; err == nil {
			if err := h.rotate.Execute(c.Request.Context(), acct.Provider, &svc); err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": "failed_to_update_external_price"})
				return
			}
		}
	}

	if err := db.Save(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_service"})
		return
	}

	c.JSON(http.StatusOK, svc)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	id := c.Param("id")
	db := h.store.DB(storage.ScopeCaller)

	var svc models.Service
	if err := db.
		Where("id = ? AND professional_id = ?", id, professionalID).
		First(&svc).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "service_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_service"})
		return
	}

	// Soft delete: a referência de preço fica no histórico; reservas
	// antigas continuam apontando para o serviço.
	svc.Active = false
	if err := db.Save(&svc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_deactivate_service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

type MeHandler struct {
	store *storage.Store
}

func NewMeHandler(store *storage.Store) *MeHandler {
	return &MeHandler{store: store}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user_not_in_context"})
		return
	}

	userID, ok := userIDVal.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_user_id_type"})
		return
	}

	db := h.store.DB(storage.ScopeCaller)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	}

	if user.Role == "professional" {
		var pro models.Professional
		if err := db.Where("user_id = ?", user.ID).First(&pro).Error; err == nil {
			resp["professional"] = gin.H{
				"id":                  pro.ID,
				"slug":                pro.Slug,
				"phone":               pro.Phone,
				"address":             pro.Address,
				"bio":                 pro.Bio,
				"timezone":            pro.Timezone,
				"min_advance_minutes": pro.MinAdvanceMinutes,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

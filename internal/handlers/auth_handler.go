package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-marketplace/internal/config"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
	"github.com/BruksfildServices01/beauty-marketplace/internal/validators"
)

type AuthHandler struct {
	store  *storage.Store
	config *config.Config
}

func NewAuthHandler(store *storage.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: store, config: cfg}
}

// --------- Requests ---------

type RegisterProfessionalRequest struct {
	Slug    string `json:"slug" binding:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	Timezone string `json:"timezone"`
	Provider string `json:"provider"`
}

type RegisterClientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) RegisterProfessional(c *gin.Context) {
	var req RegisterProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	db := h.store.DB(storage.ScopeElevated)

	slug := strings.ToLower(strings.TrimSpace(req.Slug))

	var count int64
	db.Model(&models.Professional{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug_already_exists"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         "professional",
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	pro := models.Professional{
		UserID:   user.ID,
		Slug:     slug,
		Phone:    req.Phone,
		Address:  req.Address,
		Bio:      req.Bio,
		Timezone: req.Timezone,
	}
	if err := db.Create(&pro).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_professional"})
		return
	}

	// Conta externa nasce junto, sem AccountRef: nada pode ser vendido até
	// o onboarding de repasse terminar.
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		provider = h.config.DefaultProvider
	}
	db.Create(&models.ExternalAccount{
		ProfessionalID: pro.ID,
		Provider:       provider,
	})

	token, err := h.generateToken(&user, &pro)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"professional": gin.H{
			"id":      pro.ID,
			"slug":    pro.Slug,
			"phone":   pro.Phone,
			"address": pro.Address,
		},
		"token": token,
	})
}

func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	db := h.store.DB(storage.ScopeElevated)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_email_domain",
			"message": "O domínio do e-mail informado não parece ser válido.",
		})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_hash_password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         "client",
	}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_user"})
		return
	}

	token, err := h.generateToken(&user, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	db := h.store.DB(storage.ScopeElevated)

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	}

	var pro *models.Professional
	if user.Role == "professional" {
		var p models.Professional
		if err := db.Where("user_id = ?", user.ID).First(&p).Error; err == nil {
			pro = &p
		}
	}

	token, err := h.generateToken(&user, pro)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_generate_token"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
		"token": token,
	}
	if pro != nil {
		resp["professional"] = gin.H{
			"id":      pro.ID,
			"slug":    pro.Slug,
			"phone":   pro.Phone,
			"address": pro.Address,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User, pro *models.Professional) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	if pro != nil {
		claims["professionalId"] = pro.ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}

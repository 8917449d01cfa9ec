package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/onboarding"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

// ======================================================
// HANDLER
// ======================================================

type PayoutHandler struct {
	store  *storage.Store
	repo   domain.Repository
	router *payments.Router
	resume *onboarding.ResumeStore

	publicBaseURL string
}

func NewPayoutHandler(
	store *storage.Store,
	repo domain.Repository,
	router *payments.Router,
	resume *onboarding.ResumeStore,
	publicBaseURL string,
) *PayoutHandler {
	return &PayoutHandler{
		store:         store,
		repo:          repo,
		router:        router,
		resume:        resume,
		publicBaseURL: publicBaseURL,
	}
}

// ======================================================
// STATUS
// ======================================================

func (h *PayoutHandler) Status(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	acct, err := h.repo.GetExternalAccount(c.Request.Context(), professionalID)
	if err != nil {
		httperr.NotFound(c, "account_not_found", "Conta de repasse não encontrada.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":            acct.Provider,
		"account_ref":         acct.AccountRef,
		"onboarding_complete": acct.OnboardingComplete,
		"charges_enabled":     acct.ChargesEnabled,
		"payouts_enabled":     acct.PayoutsEnabled,
		"payable":             acct.IsPayable(),
	})
}

// ======================================================
// ONBOARDING HOSPEDADO
// ======================================================

// StartOnboarding cria (se preciso) a conta conectada no provedor e devolve
// o link hospedado. O estado parcial vai para o Redis: fechar a aba no meio
// e começar de novo retoma a mesma conta.
func (h *PayoutHandler) StartOnboarding(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)
	userID := c.MustGet(middleware.ContextUserID).(uint)

	ctx := c.Request.Context()

	acct, err := h.repo.GetExternalAccount(ctx, professionalID)
	if err != nil {
		httperr.NotFound(c, "account_not_found", "Conta de repasse não encontrada.")
		return
	}

	provider := h.router.Resolve(acct.Provider)

	onboarder, ok := h.router.Onboarder(provider)
	if !ok {
		// Provedor sem onboarding hospedado: o profissional informa a
		// conta manualmente via PATCH /payout/account.
		httperr.Unprocessable(c, "onboarding_not_supported",
			"Este provedor não tem onboarding hospedado. Informe a conta manualmente.")
		return
	}

	if acct.AccountRef == nil || *acct.AccountRef == "" {
		var user models.User
		if err := h.store.DB(storage.ScopeCaller).First(&user, userID).Error; err != nil {
			httperr.Internal(c, "user_not_found", "Usuário não encontrado.")
			return
		}

		ref, err := onboarder.CreateAccount(ctx, user.Email)
		if err != nil {
			httperr.BadGateway(c, "account_create_failed", "Erro ao criar conta no provedor.")
			return
		}

		acct.AccountRef = &ref
		if err := h.repo.SaveExternalAccount(ctx, acct); err != nil {
			httperr.Internal(c, "account_save_failed", "Erro ao salvar conta.")
			return
		}
	}

	sess, err := h.resume.Create(ctx, professionalID, provider, *acct.AccountRef)
	if err != nil {
		httperr.Internal(c, "session_create_failed", "Erro ao iniciar onboarding.")
		return
	}

	refreshURL := fmt.Sprintf("%s/api/payout/onboarding/return?session=%s&refresh=1", h.publicBaseURL, sess.ID)
	returnURL := fmt.Sprintf("%s/api/payout/onboarding/return?session=%s", h.publicBaseURL, sess.ID)

	link, err := onboarder.OnboardingLink(ctx, *acct.AccountRef, refreshURL, returnURL)
	if err != nil {
		httperr.BadGateway(c, "onboarding_link_failed", "Erro ao gerar link de onboarding.")
		return
	}

	_ = h.resume.Advance(ctx, sess, "link_issued")

	c.JSON(http.StatusOK, gin.H{
		"url":        link,
		"session_id": sess.ID,
	})
}

// OnboardingReturn atende o redirect do provedor (sem autenticação: a
// sessão opaca do Redis identifica o profissional). Reconsulta o estado da
// conta e materializa as flags locais.
func (h *PayoutHandler) OnboardingReturn(c *gin.Context) {
	sessionID := c.Query("session")
	if sessionID == "" {
		httperr.BadRequest(c, "missing_session", "Sessão obrigatória.")
		return
	}

	ctx := c.Request.Context()

	sess, err := h.resume.Load(ctx, sessionID)
	if err != nil {
		httperr.NotFound(c, "session_not_found", "Sessão de onboarding expirada ou inexistente.")
		return
	}

	onboarder, ok := h.router.Onboarder(sess.Provider)
	if !ok {
		httperr.Internal(c, "provider_mismatch", "Provedor inválido para a sessão.")
		return
	}

	// refresh=1: o link expirou no meio do fluxo; reemite sem perder a conta.
	if c.Query("refresh") == "1" {
		refreshURL := fmt.Sprintf("%s/api/payout/onboarding/return?session=%s&refresh=1", h.publicBaseURL, sess.ID)
		returnURL := fmt.Sprintf("%s/api/payout/onboarding/return?session=%s", h.publicBaseURL, sess.ID)

		link, err := onboarder.OnboardingLink(ctx, sess.AccountRef, refreshURL, returnURL)
		if err != nil {
			httperr.BadGateway(c, "onboarding_link_failed", "Erro ao reemitir link.")
			return
		}

		_ = h.resume.Advance(ctx, sess, "link_reissued")

		c.Redirect(http.StatusTemporaryRedirect, link)
		return
	}

	status, err := onboarder.GetAccount(ctx, sess.AccountRef)
	if err != nil {
		httperr.BadGateway(c, "account_status_failed", "Erro ao consultar conta no provedor.")
		return
	}

	acct, err := h.repo.GetExternalAccount(ctx, sess.ProfessionalID)
	if err != nil {
		httperr.NotFound(c, "account_not_found", "Conta de repasse não encontrada.")
		return
	}

	acct.OnboardingComplete = status.OnboardingComplete
	acct.ChargesEnabled = status.ChargesEnabled
	acct.PayoutsEnabled = status.PayoutsEnabled

	if err := h.repo.SaveExternalAccount(ctx, acct); err != nil {
		httperr.Internal(c, "account_save_failed", "Erro ao salvar conta.")
		return
	}

	if status.OnboardingComplete {
		_ = h.resume.Delete(ctx, sess.ID)
	} else {
		_ = h.resume.Advance(ctx, sess, "returned_incomplete")
	}

	c.JSON(http.StatusOK, gin.H{
		"onboarding_complete": acct.OnboardingComplete,
		"charges_enabled":     acct.ChargesEnabled,
		"payouts_enabled":     acct.PayoutsEnabled,
	})
}

// ======================================================
// CONTA MANUAL (provedores sem onboarding hospedado)
// ======================================================

type SetAccountRefRequest struct {
	AccountRef string `json:"account_ref" binding:"required"`
}

func (h *PayoutHandler) SetAccountRef(c *gin.Context) {
	professionalID := c.MustGet(middleware.ContextProfessionalID).(uint)

	var req SetAccountRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()

	acct, err := h.repo.GetExternalAccount(ctx, professionalID)
	if err != nil {
		httperr.NotFound(c, "account_not_found", "Conta de repasse não encontrada.")
		return
	}

	ref := strings.TrimSpace(req.AccountRef)
	acct.AccountRef = &ref
	acct.OnboardingComplete = true

	if err := h.repo.SaveExternalAccount(ctx, acct); err != nil {
		httperr.Internal(c, "account_save_failed", "Erro ao salvar conta.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"account_ref": acct.AccountRef,
		"payable":     acct.IsPayable(),
	})
}

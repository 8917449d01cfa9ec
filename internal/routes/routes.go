package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	"github.com/BruksfildServices01/beauty-marketplace/internal/config"
	"github.com/BruksfildServices01/beauty-marketplace/internal/handlers"
	infraRepo "github.com/BruksfildServices01/beauty-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/beauty-marketplace/internal/middleware"
	"github.com/BruksfildServices01/beauty-marketplace/internal/notify"
	"github.com/BruksfildServices01/beauty-marketplace/internal/onboarding"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
	ucBooking "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/booking"
	ucService "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/service"
)

func RegisterRoutes(
	r *gin.Engine,
	store *storage.Store,
	router *payments.Router,
	resume *onboarding.ResumeStore,
	cfg *config.Config,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(store)

	auditLogger := audit.New(store.DB(storage.ScopeElevated))
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyDispatcher := notify.NewDispatcher(notify.LogNotifier{})

	// ======================================================
	// 🧠 USE CASES — BOOKINGS
	// ======================================================
	resolvePriceUC := ucService.NewResolvePrice(bookingRepo, router, cfg.Currency)
	rotatePriceUC := ucService.NewRotatePrice(router, cfg.Currency)

	availabilityUC := ucBooking.NewGetAvailability(bookingRepo)

	reserveUC := ucBooking.NewReserve(bookingRepo, auditDispatcher)

	checkoutUC := ucBooking.NewStartCheckout(
		bookingRepo,
		router,
		resolvePriceUC,
		auditDispatcher,
		cfg.PublicBaseURL,
		cfg.PlatformFeePercent,
		cfg.Currency,
	)

	confirmUC := ucBooking.NewConfirmSettlement(
		bookingRepo,
		router,
		notifyDispatcher,
		auditDispatcher,
		cfg.PlatformFeePercent,
	)

	cancelUC := ucBooking.NewCancelBooking(bookingRepo, auditDispatcher)
	completeUC := ucBooking.NewCompleteBooking(bookingRepo, auditDispatcher)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(store, cfg)
	meHandler := handlers.NewMeHandler(store)

	serviceHandler := handlers.NewServiceHandler(store, rotatePriceUC)
	workingHoursHandler := handlers.NewWorkingHoursHandler(store)
	blockedIntervalHandler := handlers.NewBlockedIntervalHandler(bookingRepo)

	bookingHandler := handlers.NewBookingHandler(
		bookingRepo,
		reserveUC,
		checkoutUC,
		confirmUC,
		cancelUC,
		completeUC,
	)

	payoutHandler := handlers.NewPayoutHandler(store, bookingRepo, router, resume, cfg.PublicBaseURL)
	auditLogsHandler := handlers.NewAuditLogsHandler(store)

	publicHandler := handlers.NewPublicHandler(store, bookingRepo, availabilityUC)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
		}

		// ------------------------------
		// 🔁 RETORNOS DO PROCESSADOR (sem auth)
		// ------------------------------
		api.GET("/bookings/confirm", bookingHandler.ConfirmReturn)
		api.GET("/bookings/cancelled", bookingHandler.CancelledReturn)
		api.GET("/payout/onboarding/return", payoutHandler.OnboardingReturn)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register/professional", authHandler.RegisterProfessional)
		api.POST("/auth/register/client", authHandler.RegisterClient)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// BOOKINGS (cliente)
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.POST("/me/bookings/:id/checkout", bookingHandler.StartCheckout)

			// ------------------------------
			// AGENDA (profissional)
			// ------------------------------
			pro := secured.Group("/")
			pro.Use(middleware.RequireProfessional())
			{
				pro.GET("/me/services", serviceHandler.List)
				pro.POST("/me/services", serviceHandler.Create)
				pro.PATCH("/me/services/:id", serviceHandler.Update)
				pro.DELETE("/me/services/:id", serviceHandler.Delete)

				pro.GET("/me/working-hours", workingHoursHandler.Get)
				pro.PUT("/me/working-hours", workingHoursHandler.Update)

				pro.GET("/me/blocked-intervals", blockedIntervalHandler.List)
				pro.POST("/me/blocked-intervals", blockedIntervalHandler.Create)
				pro.DELETE("/me/blocked-intervals/:id", blockedIntervalHandler.Delete)

				pro.GET("/me/agenda", bookingHandler.ListByDate)
				pro.GET("/me/agenda/month", bookingHandler.ListByMonth)
				pro.PATCH("/me/agenda/:id/cancel", bookingHandler.Cancel)
				pro.PATCH("/me/agenda/:id/complete", bookingHandler.Complete)

				pro.GET("/me/payout/status", payoutHandler.Status)
				pro.POST("/me/payout/onboarding", payoutHandler.StartOnboarding)
				pro.PATCH("/me/payout/account", payoutHandler.SetAccountRef)

				pro.GET("/me/audit-logs", auditLogsHandler.List)
			}
		}
	}
}

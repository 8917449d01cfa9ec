package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/beauty-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/beauty-marketplace/internal/db"
	infraRepo "github.com/BruksfildServices01/beauty-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/beauty-marketplace/internal/onboarding"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	"github.com/BruksfildServices01/beauty-marketplace/internal/routes"
	ucBooking "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/booking"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()
	store := dbpkg.NewStore(cfg)

	// --------------------------------------------------
	// Gateways de pagamento
	// --------------------------------------------------
	router := payments.NewRouter(cfg.DefaultProvider)

	if cfg.StripeSecretKey != "" {
		router.Register(payments.NewStripeGateway(cfg.StripeSecretKey, cfg.Currency))
	}

	if cfg.MPAccessToken != "" {
		mp, err := payments.NewMercadoPagoGateway(cfg.MPAccessToken, cfg.Currency)
		if err != nil {
			log.Fatalf("failed to init mercadopago: %v", err)
		}
		router.Register(mp)
	}

	// --------------------------------------------------
	// Redis (sessões de onboarding)
	// --------------------------------------------------
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	resume := onboarding.NewResumeStore(rdb)

	// --------------------------------------------------
	// Varredura de reservas pendentes expiradas
	// --------------------------------------------------
	bookingRepo := infraRepo.NewBookingGormRepository(store)
	expireUC := ucBooking.NewExpirePending(
		bookingRepo,
		time.Duration(cfg.PendingExpiryMinutes)*time.Minute,
	)
	go expireUC.Run(context.Background(), time.Minute)

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, store, router, resume, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

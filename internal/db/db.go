package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-marketplace/internal/config"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

func open(url string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db
}

// NewStore abre as duas conexões do par scoped/elevated. Quando
// DATABASE_SCOPED_URL não está configurada (dev, testes), os dois papéis
// compartilham o mesmo handle e o fallback vira um no-op.
func NewStore(cfg *config.Config) *storage.Store {
	elevated := open(cfg.DBUrl)

	scoped := elevated
	if cfg.DBScopedUrl != "" {
		scoped = open(cfg.DBScopedUrl)
	}

	if err := elevated.AutoMigrate(
		&models.User{},
		&models.Professional{},
		&models.Service{},
		&models.WorkingHours{},
		&models.BlockedInterval{},
		&models.Booking{},
		&models.ExternalAccount{},
		&models.LedgerEntry{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Barreira final contra reserva dupla entre instâncias: no máximo uma
	// reserva viva por profissional+horário, qualquer que seja o caminho
	// de escrita.
	elevated.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
        ON bookings (professional_id, start_time)
        WHERE status IN ('pending', 'confirmed')
    `)

	elevated.Exec(`
        UPDATE professionals
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	return storage.NewStore(scoped, elevated)
}

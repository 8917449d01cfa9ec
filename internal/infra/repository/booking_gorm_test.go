package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

// Repositório contra sqlite em memória, um handle só para os dois escopos.
// Os caminhos com lock de linha (criação de reserva, liquidação) dependem de
// FOR UPDATE e ficam cobertos pelos testes de caso de uso com fakes.
func newTestRepository(t *testing.T) *BookingGormRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Professional{},
		&models.Service{},
		&models.WorkingHours{},
		&models.BlockedInterval{},
		&models.Booking{},
		&models.ExternalAccount{},
	))

	return NewBookingGormRepository(storage.NewStore(db, db))
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func TestGetProfessionalBySlug(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.store.DB(storage.ScopeElevated).
		Create(&models.Professional{ID: 1, UserID: 1, Slug: "ana-nails", Timezone: "America/Sao_Paulo"}).Error)

	pro, err := repo.GetProfessionalBySlug(ctx, "ana-nails")
	require.NoError(t, err)
	assert.Equal(t, uint(1), pro.ID)

	_, err = repo.GetProfessionalBySlug(ctx, "nao-existe")
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}

func TestGetWorkingHoursMissingRowIsPermissive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	wh, err := repo.GetWorkingHours(ctx, 1, int(time.Monday))
	require.NoError(t, err)
	assert.Nil(t, wh, "sem configuração o domínio assume dia aberto")

	require.NoError(t, repo.store.DB(storage.ScopeElevated).Create(&models.WorkingHours{
		ProfessionalID: 1,
		Weekday:        int(time.Monday),
		IsWorking:      true,
		StartTime:      "09:00",
		EndTime:        "18:00",
	}).Error)

	wh, err = repo.GetWorkingHours(ctx, 1, int(time.Monday))
	require.NoError(t, err)
	require.NotNil(t, wh)
	assert.Equal(t, "09:00", wh.StartTime)
}

func TestCreateBlockedIntervalValidatesBounds(t *testing.T) {
	repo := newTestRepository(t)

	err := repo.CreateBlockedInterval(context.Background(), &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-14 12:00"),
		EndsAt:         at(t, "2026-09-14 12:00"),
	})
	assert.Equal(t, httperr.CodeValidation, httperr.BusinessCode(err))
}

func TestCreateBlockedIntervalRejectsOverlap(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateBlockedInterval(ctx, &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-14 12:00"),
		EndsAt:         at(t, "2026-09-14 14:00"),
		Reason:         "almoço estendido",
	}))

	// encosta na borda final do existente — bordas são inclusivas
	err := repo.CreateBlockedInterval(ctx, &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-14 14:00"),
		EndsAt:         at(t, "2026-09-14 15:00"),
	})
	assert.Equal(t, httperr.CodeIntervalOverlap, httperr.BusinessCode(err))

	// outro profissional não conflita
	require.NoError(t, repo.CreateBlockedInterval(ctx, &models.BlockedInterval{
		ProfessionalID: 2,
		StartsAt:       at(t, "2026-09-14 13:00"),
		EndsAt:         at(t, "2026-09-14 15:00"),
	}))
}

func TestListBlockedIntervalsWindow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateBlockedInterval(ctx, &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-14 12:00"),
		EndsAt:         at(t, "2026-09-14 13:00"),
	}))
	require.NoError(t, repo.CreateBlockedInterval(ctx, &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-20 08:00"),
		EndsAt:         at(t, "2026-09-20 18:00"),
	}))

	ivs, err := repo.ListBlockedIntervals(ctx, 1,
		at(t, "2026-09-14 00:00"), at(t, "2026-09-14 23:59"))
	require.NoError(t, err)
	require.Len(t, ivs, 1)
	assert.Equal(t, at(t, "2026-09-14 12:00").Unix(), ivs[0].StartsAt.Unix())

	// intervalo terminando exatamente no início da janela ainda aparece
	ivs, err = repo.ListBlockedIntervals(ctx, 1,
		at(t, "2026-09-14 13:00"), at(t, "2026-09-14 23:59"))
	require.NoError(t, err)
	assert.Len(t, ivs, 1)
}

func TestDeleteBlockedIntervalScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	iv := &models.BlockedInterval{
		ProfessionalID: 1,
		StartsAt:       at(t, "2026-09-14 12:00"),
		EndsAt:         at(t, "2026-09-14 13:00"),
	}
	require.NoError(t, repo.CreateBlockedInterval(ctx, iv))

	err := repo.DeleteBlockedInterval(ctx, 99, iv.ID)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err), "dono errado não enxerga a linha")

	require.NoError(t, repo.DeleteBlockedInterval(ctx, 1, iv.ID))

	err = repo.DeleteBlockedInterval(ctx, 1, iv.ID)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}

func TestListActiveBookingsFiltersStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	db := repo.store.DB(storage.ScopeElevated)

	mk := func(start, end string, status string) {
		require.NoError(t, db.Create(&models.Booking{
			ProfessionalID: 1,
			ClientID:       2,
			ServiceID:      5,
			StartTime:      at(t, start),
			EndTime:        at(t, end),
			Status:         status,
		}).Error)
	}

	mk("2026-09-14 10:00", "2026-09-14 11:00", string(domain.StatusPending))
	mk("2026-09-14 12:00", "2026-09-14 13:00", string(domain.StatusConfirmed))
	mk("2026-09-14 14:00", "2026-09-14 15:00", string(domain.StatusCancelled))
	mk("2026-09-14 16:00", "2026-09-14 17:00", string(domain.StatusFailed))

	bs, err := repo.ListActiveBookings(ctx, 1,
		at(t, "2026-09-14 00:00"), at(t, "2026-09-15 00:00"))
	require.NoError(t, err)
	require.Len(t, bs, 2, "só pendente e confirmada seguram o horário")
	assert.Equal(t, string(domain.StatusPending), bs[0].Status)
	assert.Equal(t, string(domain.StatusConfirmed), bs[1].Status)
}

func TestGetBookingForClientScoping(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.store.DB(storage.ScopeElevated).Create(&models.Booking{
		ID:             7,
		ProfessionalID: 1,
		ClientID:       2,
		ServiceID:      5,
		StartTime:      at(t, "2026-09-14 10:00"),
		EndTime:        at(t, "2026-09-14 11:00"),
		Status:         string(domain.StatusPending),
	}).Error)

	b, err := repo.GetBookingForClient(ctx, 7, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(7), b.ID)

	_, err = repo.GetBookingForClient(ctx, 7, 3)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))

	_, err = repo.GetBookingForProfessional(ctx, 7, 9)
	assert.Equal(t, httperr.CodeNotFound, httperr.BusinessCode(err))
}

func TestExpirePendingBeforeOnlyTouchesStalePending(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	db := repo.store.DB(storage.ScopeElevated)

	now := time.Now().UTC()
	old := now.Add(-2 * time.Hour)

	stale := models.Booking{
		ProfessionalID: 1, ClientID: 2, ServiceID: 5,
		StartTime: now.Add(24 * time.Hour), EndTime: now.Add(25 * time.Hour),
		Status: string(domain.StatusPending),
	}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", old).Error)

	confirmed := models.Booking{
		ProfessionalID: 1, ClientID: 2, ServiceID: 5,
		StartTime: now.Add(26 * time.Hour), EndTime: now.Add(27 * time.Hour),
		Status: string(domain.StatusConfirmed),
	}
	require.NoError(t, db.Create(&confirmed).Error)
	require.NoError(t, db.Model(&confirmed).Update("created_at", old).Error)

	fresh := models.Booking{
		ProfessionalID: 1, ClientID: 2, ServiceID: 5,
		StartTime: now.Add(28 * time.Hour), EndTime: now.Add(29 * time.Hour),
		Status: string(domain.StatusPending),
	}
	require.NoError(t, db.Create(&fresh).Error)

	// pendente antiga mas já em checkout: a sessão do processador segue
	// pagável, a varredura não pode derrubar a reserva
	sessID := "sess_live"
	inCheckout := models.Booking{
		ProfessionalID: 1, ClientID: 2, ServiceID: 5,
		StartTime: now.Add(30 * time.Hour), EndTime: now.Add(31 * time.Hour),
		Status:            string(domain.StatusPending),
		CheckoutSessionID: &sessID,
	}
	require.NoError(t, db.Create(&inCheckout).Error)
	require.NoError(t, db.Model(&inCheckout).Update("created_at", old).Error)

	n, err := repo.ExpirePendingBefore(ctx, now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// dest novo por consulta: gorm incorpora a PK do struct nas condições
	var gotStale models.Booking
	require.NoError(t, db.First(&gotStale, stale.ID).Error)
	assert.Equal(t, string(domain.StatusCancelled), gotStale.Status)
	require.NotNil(t, gotStale.CancelledAt)

	var gotConfirmed models.Booking
	require.NoError(t, db.First(&gotConfirmed, confirmed.ID).Error)
	assert.Equal(t, string(domain.StatusConfirmed), gotConfirmed.Status)

	var gotFresh models.Booking
	require.NoError(t, db.First(&gotFresh, fresh.ID).Error)
	assert.Equal(t, string(domain.StatusPending), gotFresh.Status)

	var gotInCheckout models.Booking
	require.NoError(t, db.First(&gotInCheckout, inCheckout.ID).Error)
	assert.Equal(t, string(domain.StatusPending), gotInCheckout.Status)
}

package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/storage"
)

type BookingGormRepository struct {
	store *storage.Store
}

func NewBookingGormRepository(store *storage.Store) *BookingGormRepository {
	return &BookingGormRepository{store: store}
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return err
}

// --------------------------------------------------
// Professional
// --------------------------------------------------

func (r *BookingGormRepository) GetProfessionalByID(
	ctx context.Context,
	id uint,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		First(&pro, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &pro, nil
}

func (r *BookingGormRepository) GetProfessionalBySlug(
	ctx context.Context,
	slug string,
) (*models.Professional, error) {

	var pro models.Professional
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("slug = ?", slug).
		First(&pro).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &pro, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	professionalID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("id = ? AND professional_id = ?", serviceID, professionalID).
		First(&svc).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &svc, nil
}

// SaveServiceRefs grava as referências externas do serviço. O chamador pode
// ser um cliente em checkout, e a linha é do profissional — é exatamente o
// caso do caminho elevado.
func (r *BookingGormRepository) SaveServiceRefs(
	ctx context.Context,
	svc *models.Service,
) error {

	return storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Model(&models.Service{}).
			Where("id = ?", svc.ID).
			Updates(map[string]any{
				"external_product_ref": svc.ExternalProductRef,
				"external_price_ref":   svc.ExternalPriceRef,
			}).Error
	})
}

// --------------------------------------------------
// External account
// --------------------------------------------------

func (r *BookingGormRepository) GetExternalAccount(
	ctx context.Context,
	professionalID uint,
) (*models.ExternalAccount, error) {

	var acct models.ExternalAccount
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("professional_id = ?", professionalID).
		First(&acct).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &acct, nil
}

func (r *BookingGormRepository) SaveExternalAccount(
	ctx context.Context,
	acct *models.ExternalAccount,
) error {

	return storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Save(acct).Error
	})
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		// sem linha = padrão permissivo; o domínio decide
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wh, nil
}

func (r *BookingGormRepository) ListBlockedIntervals(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.BlockedInterval, error) {

	var ivs []models.BlockedInterval
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where(
			"professional_id = ? AND starts_at <= ? AND ends_at >= ?",
			professionalID, to, from,
		).
		Order("starts_at ASC").
		Find(&ivs).Error; err != nil {
		return nil, err
	}
	return ivs, nil
}

func (r *BookingGormRepository) CreateBlockedInterval(
	ctx context.Context,
	iv *models.BlockedInterval,
) error {

	if !iv.EndsAt.After(iv.StartsAt) {
		return httperr.ErrBusiness(httperr.CodeValidation)
	}

	return storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.BlockedInterval{}).
				Where(
					"professional_id = ? AND starts_at <= ? AND ends_at >= ?",
					iv.ProfessionalID, iv.EndsAt, iv.StartsAt,
				).
				Count(&count).Error; err != nil {
				return err
			}

			if count > 0 {
				return httperr.ErrBusiness(httperr.CodeIntervalOverlap)
			}

			return tx.Create(iv).Error
		})
	})
}

func (r *BookingGormRepository) DeleteBlockedInterval(
	ctx context.Context,
	professionalID uint,
	id uint,
) error {

	return storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		res := db.
			Where("id = ? AND professional_id = ?", id, professionalID).
			Delete(&models.BlockedInterval{})

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil
	})
}

func (r *BookingGormRepository) ListActiveBookings(
	ctx context.Context,
	professionalID uint,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bs []models.Booking
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID, domain.ActiveStatuses, to, from,
		).
		Order("start_time ASC").
		Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// CreateBookingIfFree faz a checagem de conflito e o insert na MESMA
// transação, com lock das reservas conflitantes. O índice único parcial em
// (professional_id, start_time) para status ativos é a garantia final
// contra duas instâncias correndo — violação vira slot_unavailable.
func (r *BookingGormRepository) CreateBookingIfFree(
	ctx context.Context,
	b *models.Booking,
) error {

	err := storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {

			var conflicts []models.Booking
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(
					"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
					b.ProfessionalID, domain.ActiveStatuses, b.EndTime, b.StartTime,
				).
				Find(&conflicts).Error; err != nil {
				return err
			}

			if len(conflicts) > 0 {
				return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
			}

			return tx.Create(b).Error
		})
	})

	if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	return err
}

// --------------------------------------------------
// Booking (read)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		First(&b, id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForClient(
	ctx context.Context,
	id uint,
	clientID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("id = ? AND client_id = ?", id, clientID).
		First(&b).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingForProfessional(
	ctx context.Context,
	id uint,
	professionalID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Where("id = ? AND professional_id = ?", id, professionalID).
		First(&b).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bs []models.Booking
	if err := r.store.DB(storage.ScopeCaller).WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"professional_id = ? AND start_time >= ? AND start_time < ?",
			professionalID, start, end,
		).
		Order("start_time ASC").
		Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Save(b).Error
	})
}

// ConfirmBookingTx é o procedimento atômico de liquidação: lock da linha,
// transição de status e lançamento de receita na MESMA transação. O upsert
// DO NOTHING por booking_id faz a repetição (usuário recarregando a página
// de sucesso) ser inofensiva.
func (r *BookingGormRepository) ConfirmBookingTx(
	ctx context.Context,
	bookingID uint,
	mutate func(b *models.Booking) error,
	entry *models.LedgerEntry,
) (*models.Booking, error) {

	var out models.Booking

	err := storage.WithAuthFallback(ctx, r.store, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {

			var b models.Booking
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&b, bookingID).Error; err != nil {
				return notFoundOr(err)
			}

			if err := mutate(&b); err != nil {
				return err
			}

			if err := tx.Save(&b).Error; err != nil {
				return err
			}

			if entry != nil {
				entry.BookingID = b.ID
				if err := tx.
					Clauses(clause.OnConflict{
						Columns:   []clause.Column{{Name: "booking_id"}},
						DoNothing: true,
					}).
					Create(entry).Error; err != nil {
					return err
				}
			}

			out = b
			return nil
		})
	})

	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpirePendingBefore cancela em lote reservas pendentes antigas que nunca
// chegaram ao checkout. Reservas com checkout_session_id ficam de fora: a
// sessão do processador continua pagável por horas, e o retorno do checkout
// resolve o desfecho (pago, abandonado ou recusado). Roda no caminho elevado:
// é manutenção, não ação de usuário.
func (r *BookingGormRepository) ExpirePendingBefore(
	ctx context.Context,
	cutoff time.Time,
	now time.Time,
) (int64, error) {

	res := r.store.DB(storage.ScopeElevated).WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"status = ? AND created_at < ? AND checkout_session_id IS NULL",
			string(domain.StatusPending), cutoff,
		).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": now,
		})

	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)

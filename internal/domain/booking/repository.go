package booking

import (
	"context"
	"time"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

type Repository interface {
	// -------- Professional --------
	GetProfessionalByID(
		ctx context.Context,
		id uint,
	) (*models.Professional, error)

	GetProfessionalBySlug(
		ctx context.Context,
		slug string,
	) (*models.Professional, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		professionalID uint,
		serviceID uint,
	) (*models.Service, error)

	// SaveServiceRefs persiste as referências externas de preço/produto.
	// Passa pelo fallback de autorização: quem dispara pode ser um cliente,
	// e a linha pertence ao profissional.
	SaveServiceRefs(
		ctx context.Context,
		svc *models.Service,
	) error

	// -------- External account --------
	GetExternalAccount(
		ctx context.Context,
		professionalID uint,
	) (*models.ExternalAccount, error)

	SaveExternalAccount(
		ctx context.Context,
		acct *models.ExternalAccount,
	) error

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		professionalID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListBlockedIntervals(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.BlockedInterval, error)

	CreateBlockedInterval(
		ctx context.Context,
		iv *models.BlockedInterval,
	) error

	DeleteBlockedInterval(
		ctx context.Context,
		professionalID uint,
		id uint,
	) error

	ListActiveBookings(
		ctx context.Context,
		professionalID uint,
		from time.Time,
		to time.Time,
	) ([]models.Booking, error)

	// -------- Booking (create / conflict) --------

	// CreateBookingIfFree trata checagem de conflito + insert como uma única
	// operação compare-and-insert: lock das reservas ativas conflitantes
	// dentro da transação, com o índice único parcial do banco como garantia
	// final contra corrida entre instâncias.
	CreateBookingIfFree(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (read) --------
	GetBooking(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingForClient(
		ctx context.Context,
		id uint,
		clientID uint,
	) (*models.Booking, error)

	GetBookingForProfessional(
		ctx context.Context,
		id uint,
		professionalID uint,
	) (*models.Booking, error)

	ListBookingsForPeriod(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (state change) --------
	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// ConfirmBookingTx aplica mutate sobre a reserva com lock de linha e, na
	// mesma transação, registra o lançamento de receita (upsert DO NOTHING
	// por booking_id). É o procedimento atômico de confirmação.
	ConfirmBookingTx(
		ctx context.Context,
		bookingID uint,
		mutate func(b *models.Booking) error,
		entry *models.LedgerEntry,
	) (*models.Booking, error)

	// ExpirePendingBefore cancela reservas pendentes criadas antes do corte.
	ExpirePendingBefore(
		ctx context.Context,
		cutoff time.Time,
		now time.Time,
	) (int64, error)
}

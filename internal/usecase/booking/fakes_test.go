package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/beauty-marketplace/internal/audit"
	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
)

// ======================================================
// REPOSITÓRIO EM MEMÓRIA
// ======================================================

type fakeRepo struct {
	professionals map[uint]*models.Professional
	services      map[uint]*models.Service
	accounts      map[uint]*models.ExternalAccount
	workingHours  map[string]*models.WorkingHours // "proID/weekday"
	blocked       []models.BlockedInterval
	bookings      map[uint]*models.Booking
	ledger        map[uint]*models.LedgerEntry // por bookingID

	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		professionals: map[uint]*models.Professional{},
		services:      map[uint]*models.Service{},
		accounts:      map[uint]*models.ExternalAccount{},
		workingHours:  map[string]*models.WorkingHours{},
		bookings:      map[uint]*models.Booking{},
		ledger:        map[uint]*models.LedgerEntry{},
		nextID:        1,
	}
}

func whKey(proID uint, weekday int) string {
	return fmt.Sprintf("%d/%d", proID, weekday)
}

func (r *fakeRepo) GetProfessionalByID(_ context.Context, id uint) (*models.Professional, error) {
	if p, ok := r.professionals[id]; ok {
		return p, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetProfessionalBySlug(_ context.Context, slug string) (*models.Professional, error) {
	for _, p := range r.professionals {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetService(_ context.Context, proID, svcID uint) (*models.Service, error) {
	if s, ok := r.services[svcID]; ok && s.ProfessionalID == proID {
		return s, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) SaveServiceRefs(_ context.Context, svc *models.Service) error {
	if s, ok := r.services[svc.ID]; ok {
		s.ExternalProductRef = svc.ExternalProductRef
		s.ExternalPriceRef = svc.ExternalPriceRef
		return nil
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetExternalAccount(_ context.Context, proID uint) (*models.ExternalAccount, error) {
	if a, ok := r.accounts[proID]; ok {
		return a, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) SaveExternalAccount(_ context.Context, acct *models.ExternalAccount) error {
	r.accounts[acct.ProfessionalID] = acct
	return nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, proID uint, weekday int) (*models.WorkingHours, error) {
	return r.workingHours[whKey(proID, weekday)], nil
}

func (r *fakeRepo) ListBlockedIntervals(_ context.Context, proID uint, from, to time.Time) ([]models.BlockedInterval, error) {
	var out []models.BlockedInterval
	for _, iv := range r.blocked {
		if iv.ProfessionalID == proID && !iv.StartsAt.After(to) && !iv.EndsAt.Before(from) {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBlockedInterval(_ context.Context, iv *models.BlockedInterval) error {
	iv.ID = r.nextID
	r.nextID++
	r.blocked = append(r.blocked, *iv)
	return nil
}

func (r *fakeRepo) DeleteBlockedInterval(_ context.Context, proID, id uint) error {
	for i, iv := range r.blocked {
		if iv.ID == id && iv.ProfessionalID == proID {
			r.blocked = append(r.blocked[:i], r.blocked[i+1:]...)
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) ListActiveBookings(_ context.Context, proID uint, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProfessionalID == proID &&
			domain.HoldsSlot(domain.Status(b.Status)) &&
			b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBookingIfFree(_ context.Context, b *models.Booking) error {
	for _, other := range r.bookings {
		if other.ProfessionalID == b.ProfessionalID &&
			domain.HoldsSlot(domain.Status(other.Status)) &&
			b.StartTime.Before(other.EndTime) && b.EndTime.After(other.StartTime) {
			return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
		}
	}
	b.ID = r.nextID
	r.nextID++
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok {
		return b, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetBookingForClient(_ context.Context, id, clientID uint) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok && b.ClientID == clientID {
		return b, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) GetBookingForProfessional(_ context.Context, id, proID uint) (*models.Booking, error) {
	if b, ok := r.bookings[id]; ok && b.ProfessionalID == proID {
		return b, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (r *fakeRepo) ListBookingsForPeriod(_ context.Context, proID uint, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProfessionalID == proID && !b.StartTime.Before(start) && b.StartTime.Before(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	if _, ok := r.bookings[b.ID]; !ok {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	r.bookings[b.ID] = b
	return nil
}

func (r *fakeRepo) ConfirmBookingTx(
	_ context.Context,
	bookingID uint,
	mutate func(b *models.Booking) error,
	entry *models.LedgerEntry,
) (*models.Booking, error) {

	b, ok := r.bookings[bookingID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if err := mutate(b); err != nil {
		return nil, err
	}

	if entry != nil {
		if _, exists := r.ledger[bookingID]; !exists {
			entry.BookingID = bookingID
			r.ledger[bookingID] = entry
		}
	}

	return b, nil
}

func (r *fakeRepo) ExpirePendingBefore(_ context.Context, cutoff, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.bookings {
		if b.Status == string(domain.StatusPending) &&
			b.CheckoutSessionID == nil &&
			b.CreatedAt.Before(cutoff) {
			b.Status = string(domain.StatusCancelled)
			b.CancelledAt = &now
			n++
		}
	}
	return n, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// GATEWAY FAKE (com catálogo de preços)
// ======================================================

type fakeGateway struct {
	name string

	checkoutErr  error
	lastCheckout payments.CheckoutSpec
	sessions     map[string]payments.CheckoutState

	prices      map[string]*payments.PriceInfo
	priceSeq    int
	deactivated []string
}

func newFakeGateway(name string) *fakeGateway {
	return &fakeGateway{
		name:     name,
		sessions: map[string]payments.CheckoutState{},
		prices:   map[string]*payments.PriceInfo{},
	}
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreateCheckout(_ context.Context, spec payments.CheckoutSpec) (*payments.CheckoutHandle, error) {
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	g.lastCheckout = spec

	sessionID := fmt.Sprintf("sess_%d", spec.BookingID)
	g.sessions[sessionID] = payments.StateOpen

	return &payments.CheckoutHandle{
		SessionID: sessionID,
		URL:       "https://checkout.example/" + sessionID,
	}, nil
}

func (g *fakeGateway) GetCheckout(_ context.Context, sessionID string) (*payments.CheckoutStatus, error) {
	state, ok := g.sessions[sessionID]
	if !ok {
		return nil, errors.New("unknown session")
	}
	return &payments.CheckoutStatus{
		SessionID:   sessionID,
		State:       state,
		AmountCents: g.lastCheckout.AmountCents,
	}, nil
}

func (g *fakeGateway) CreatePrice(_ context.Context, spec payments.PriceSpec) (*payments.PriceRef, error) {
	g.priceSeq++

	productRef := spec.ProductRef
	if productRef == "" {
		productRef = fmt.Sprintf("prod_%d", g.priceSeq)
	}
	priceRef := fmt.Sprintf("price_%d", g.priceSeq)

	g.prices[priceRef] = &payments.PriceInfo{
		Ref:         priceRef,
		Active:      true,
		AmountCents: spec.AmountCents,
	}

	return &payments.PriceRef{ProductRef: productRef, PriceRef: priceRef}, nil
}

func (g *fakeGateway) GetPrice(_ context.Context, priceRef string) (*payments.PriceInfo, error) {
	if info, ok := g.prices[priceRef]; ok {
		return info, nil
	}
	return nil, errors.New("unknown price")
}

func (g *fakeGateway) DeactivatePrice(_ context.Context, priceRef string) error {
	if info, ok := g.prices[priceRef]; ok {
		info.Active = false
		g.deactivated = append(g.deactivated, priceRef)
		return nil
	}
	return errors.New("unknown price")
}

var (
	_ payments.Gateway      = (*fakeGateway)(nil)
	_ payments.PriceCatalog = (*fakeGateway)(nil)
)

// ======================================================
// HELPERS DE CENÁRIO
// ======================================================

func newTestAudit(t *testing.T) *audit.Dispatcher {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return audit.NewDispatcher(audit.New(db))
}

func strPtr(s string) *string { return &s }

// seedScenario monta um profissional apto a vender com um serviço de 60min.
func seedScenario(repo *fakeRepo) (proID, svcID uint) {
	repo.professionals[1] = &models.Professional{
		ID:       1,
		UserID:   10,
		Slug:     "ana-nails",
		Timezone: "America/Sao_Paulo",
	}
	repo.services[5] = &models.Service{
		ID:             5,
		ProfessionalID: 1,
		Name:           "Manicure completa",
		DurationMin:    60,
		Price:          50.0,
		Active:         true,
	}
	repo.accounts[1] = &models.ExternalAccount{
		ProfessionalID:     1,
		Provider:           "fakepay",
		AccountRef:         strPtr("acct_123"),
		OnboardingComplete: true,
	}
	return 1, 5
}

// futureSlot devolve data/hora de amanhã às 12:30 no fuso do profissional.
func futureSlot() (string, string) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
	return tomorrow.Format("2006-01-02"), "12:30"
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
	svcuc "github.com/BruksfildServices01/beauty-marketplace/internal/usecase/service"
)

const testBaseURL = "https://api.example.com"

func newCheckoutFixture(t *testing.T) (*fakeRepo, *fakeGateway, *StartCheckout) {
	t.Helper()

	repo := newFakeRepo()
	seedScenario(repo)

	gw := newFakeGateway("fakepay")
	router := payments.NewRouter("fakepay")
	router.Register(gw)

	resolver := svcuc.NewResolvePrice(repo, router, "brl")

	uc := NewStartCheckout(
		repo,
		router,
		resolver,
		newTestAudit(t),
		testBaseURL,
		10,
		"brl",
	)
	return repo, gw, uc
}

func reserveOne(t *testing.T, repo *fakeRepo) *models.Booking {
	t.Helper()

	uc := NewReserve(repo, newTestAudit(t))
	date, hour := futureSlot()

	b, err := uc.Execute(context.Background(), ReserveInput{
		ClientID: 7, ProfessionalID: 1, ServiceID: 5,
		Date: date, Time: hour,
	})
	require.NoError(t, err)
	return b
}

func TestStartCheckoutBuildsSplitSession(t *testing.T) {
	repo, gw, uc := newCheckoutFixture(t)
	b := reserveOne(t, repo)

	handle, err := uc.Execute(context.Background(), b.ID, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, handle.URL)
	assert.NotEmpty(t, handle.SessionID)

	spec := gw.lastCheckout
	assert.Equal(t, int64(5000), spec.AmountCents)
	assert.Equal(t, int64(500), spec.FeeCents, "10% arredondado para baixo")
	assert.Equal(t, "acct_123", spec.DestinationAccount)

	// URLs autodescritivas: booking + tx + placeholder de sessão
	wantSuccess := fmt.Sprintf(
		"%s/api/bookings/confirm?booking_id=%d&tx=%s&session_id={CHECKOUT_SESSION_ID}",
		testBaseURL, b.ID, b.TransactionID,
	)
	assert.Equal(t, wantSuccess, spec.SuccessURL)
	assert.Contains(t, spec.CancelURL, fmt.Sprintf("booking_id=%d", b.ID))

	// sessão gravada na reserva para reconciliação no retorno
	require.NotNil(t, repo.bookings[b.ID].CheckoutSessionID)
	assert.Equal(t, handle.SessionID, *repo.bookings[b.ID].CheckoutSessionID)
	assert.Equal(t, string(domain.StatusPending), repo.bookings[b.ID].Status)
}

// Primeira venda cria o preço no processador e grava as referências no
// serviço; a segunda reusa o objeto já criado.
func TestStartCheckoutResolvesPriceLazily(t *testing.T) {
	repo, gw, uc := newCheckoutFixture(t)

	require.Nil(t, repo.services[5].ExternalPriceRef, "serviço nasce sem referência")

	b := reserveOne(t, repo)
	_, err := uc.Execute(context.Background(), b.ID, 7)
	require.NoError(t, err)

	require.NotNil(t, repo.services[5].ExternalPriceRef)
	firstRef := *repo.services[5].ExternalPriceRef
	assert.Equal(t, firstRef, gw.lastCheckout.PriceRef)
	assert.Equal(t, 1, gw.priceSeq)

	// segunda venda: nenhum preço novo
	repo.bookings[b.ID].Status = string(domain.StatusCancelled)
	b2 := reserveOne(t, repo)
	_, err = uc.Execute(context.Background(), b2.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.priceSeq, "referência cacheada reusada")
	assert.Equal(t, firstRef, *repo.services[5].ExternalPriceRef)
}

// Falha no processador deixa a reserva intocada em pending: o cliente pode
// tentar pagar de novo sem revalidar o horário.
func TestStartCheckoutProcessorErrorLeavesPending(t *testing.T) {
	repo, gw, uc := newCheckoutFixture(t)
	b := reserveOne(t, repo)

	gw.checkoutErr = errors.New("gateway unavailable")

	_, err := uc.Execute(context.Background(), b.ID, 7)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeProcessorError))

	stored := repo.bookings[b.ID]
	assert.Equal(t, string(domain.StatusPending), stored.Status)
	assert.Nil(t, stored.CheckoutSessionID)
}

func TestStartCheckoutRejectsNonPending(t *testing.T) {
	repo, _, uc := newCheckoutFixture(t)
	b := reserveOne(t, repo)

	repo.bookings[b.ID].Status = string(domain.StatusConfirmed)

	_, err := uc.Execute(context.Background(), b.ID, 7)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}

func TestStartCheckoutRejectsWrongClient(t *testing.T) {
	repo, _, uc := newCheckoutFixture(t)
	b := reserveOne(t, repo)

	_, err := uc.Execute(context.Background(), b.ID, 999)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestStartCheckoutRejectsWhenAccountBecameUnpayable(t *testing.T) {
	repo, _, uc := newCheckoutFixture(t)
	b := reserveOne(t, repo)

	// conta desabilitada entre a reserva e o checkout
	repo.accounts[1].OnboardingComplete = false

	_, err := uc.Execute(context.Background(), b.ID, 7)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotPayable))
}

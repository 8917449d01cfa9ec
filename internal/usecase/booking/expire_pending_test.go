package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

// A varredura derruba só a pendente antiga SEM checkout. Quem já tem sessão
// aberta no processador pode pagar depois da varredura e ainda liquidar.
func TestExpirePendingSweepSparesBookingsInCheckout(t *testing.T) {
	f := newSettlementFixture(t)
	bookingID, tx, sessionID := f.startPaidCheckout(t)

	old := time.Now().Add(-2 * time.Hour)
	f.repo.bookings[bookingID].CreatedAt = old

	// pendente antiga que nunca chegou ao checkout
	f.repo.bookings[77] = &models.Booking{
		ID:             77,
		ProfessionalID: 1,
		ClientID:       3,
		ServiceID:      5,
		StartTime:      time.Now().Add(72 * time.Hour),
		EndTime:        time.Now().Add(73 * time.Hour),
		Status:         string(domain.StatusPending),
		CreatedAt:      old,
	}

	sweep := NewExpirePending(f.repo, 30*time.Minute)
	n, err := sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, string(domain.StatusCancelled), f.repo.bookings[77].Status)
	require.NotNil(t, f.repo.bookings[77].CancelledAt)
	assert.Equal(t, string(domain.StatusPending), f.repo.bookings[bookingID].Status)

	// o pagamento concluído depois da varredura ainda liquida
	b, err := f.confirm.Execute(context.Background(), bookingID, tx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)
}

func TestExpirePendingSweepIgnoresFreshPending(t *testing.T) {
	repo := newFakeRepo()
	seedScenario(repo)

	b := reserveOne(t, repo)
	repo.bookings[b.ID].CreatedAt = time.Now().Add(-5 * time.Minute)

	sweep := NewExpirePending(repo, 30*time.Minute)
	n, err := sweep.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, string(domain.StatusPending), repo.bookings[b.ID].Status)
}

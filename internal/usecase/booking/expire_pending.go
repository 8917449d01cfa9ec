package booking

import (
	"context"
	"log"
	"time"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/timezone"
)

// ExpirePending cancela reservas que ficaram pendentes além do prazo sem
// iniciar pagamento, liberando os horários que elas seguravam. Roda em
// loop de fundo no processo da API.
type ExpirePending struct {
	repo       domain.Repository
	maxPending time.Duration
}

func NewExpirePending(repo domain.Repository, maxPending time.Duration) *ExpirePending {
	return &ExpirePending{repo: repo, maxPending: maxPending}
}

func (uc *ExpirePending) Execute(ctx context.Context) (int64, error) {
	now := timezone.Now()
	cutoff := now.Add(-uc.maxPending)
	return uc.repo.ExpirePendingBefore(ctx, cutoff, now)
}

// Run dispara a varredura a cada intervalo até o contexto encerrar.
func (uc *ExpirePending) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := uc.Execute(ctx)
			if err != nil {
				log.Println("expire sweep error:", err)
				continue
			}
			if n > 0 {
				log.Printf("expire sweep: cancelled %d stale pending bookings", n)
			}
		}
	}
}

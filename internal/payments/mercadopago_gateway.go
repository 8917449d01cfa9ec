package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPagoGateway implementa o checkout hospedado via Checkout Pro:
// preferência com marketplace_fee para o split. O Mercado Pago não tem
// catálogo de objetos de preço, então o valor vai sempre inline — o router
// simplesmente não expõe PriceCatalog para este provedor.
type MercadoPagoGateway struct {
	prefClient preference.Client
	payClient  payment.Client
	currency   string
}

func NewMercadoPagoGateway(accessToken, currency string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: config: %w", err)
	}

	if currency == "" {
		currency = "BRL"
	}

	return &MercadoPagoGateway{
		prefClient: preference.NewClient(cfg),
		payClient:  payment.NewClient(cfg),
		currency:   currency,
	}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

func externalReference(spec CheckoutSpec) string {
	return fmt.Sprintf("booking-%d-%s", spec.BookingID, spec.TransactionID)
}

func (g *MercadoPagoGateway) CreateCheckout(ctx context.Context, spec CheckoutSpec) (*CheckoutHandle, error) {
	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:          fmt.Sprintf("%d", spec.BookingID),
				Title:       spec.Title,
				Description: spec.Description,
				Quantity:    1,
				UnitPrice:   FromMinorUnits(spec.AmountCents),
				CurrencyID:  g.currency,
			},
		},
		ExternalReference: externalReference(spec),
		MarketplaceFee:    FromMinorUnits(spec.FeeCents),
		BackURLs: &preference.BackURLsRequest{
			Success: spec.SuccessURL,
			Pending: spec.SuccessURL,
			Failure: spec.CancelURL,
		},
		AutoReturn: "approved",
	}

	pref, err := g.prefClient.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}

	return &CheckoutHandle{
		SessionID: pref.ID,
		URL:       pref.InitPoint,
	}, nil
}

// GetCheckout localiza a preferência e procura pagamentos pela referência
// externa. Sem pagamento ainda = sessão aberta; o sweep de pendências cuida
// do abandono.
func (g *MercadoPagoGateway) GetCheckout(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	pref, err := g.prefClient.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: get preference %s: %w", sessionID, err)
	}

	search, err := g.payClient.Search(ctx, payment.SearchRequest{
		Limit: 10,
		Filters: map[string]string{
			"external_reference": pref.ExternalReference,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago: search payments for %s: %w", sessionID, err)
	}

	status := &CheckoutStatus{
		SessionID: sessionID,
		State:     StateOpen,
	}

	for _, p := range search.Results {
		switch p.Status {
		case "approved":
			status.State = StatePaid
			status.AmountCents = ToMinorUnits(p.TransactionAmount)
			return status, nil
		case "rejected", "cancelled":
			status.State = StateFailed
		case "pending", "in_process":
			if status.State != StateFailed {
				status.State = StateOpen
			}
		}
	}

	return status, nil
}

// Compile-time check
var _ Gateway = (*MercadoPagoGateway)(nil)

package payments

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeGateway implementa checkout hospedado com split via Stripe Connect:
// o valor é cobrado uma vez, a application fee fica com a plataforma e o
// restante é transferido para a conta conectada do profissional.
type StripeGateway struct {
	api      *client.API
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)

	if currency == "" {
		currency = "brl"
	}

	return &StripeGateway{
		api:      api,
		currency: currency,
	}
}

func (g *StripeGateway) Name() string { return "stripe" }

// ------------------------------------------------------
// Checkout
// ------------------------------------------------------

func (g *StripeGateway) CreateCheckout(ctx context.Context, spec CheckoutSpec) (*CheckoutHandle, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(spec.SuccessURL),
		CancelURL:         stripe.String(spec.CancelURL),
		ClientReferenceID: stripe.String(spec.TransactionID),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(spec.FeeCents),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(spec.DestinationAccount),
			},
		},
	}
	params.Context = ctx

	if spec.PriceRef != "" {
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(spec.PriceRef),
			Quantity: stripe.Int64(1),
		}}
	} else {
		// Provedor sem preço resolvido: valor inline.
		params.LineItems = []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(spec.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(spec.Title),
				},
			},
			Quantity: stripe.Int64(1),
		}}
	}

	params.AddMetadata("booking_id", fmt.Sprintf("%d", spec.BookingID))
	params.AddMetadata("transaction_id", spec.TransactionID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutHandle{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

func (g *StripeGateway) GetCheckout(ctx context.Context, sessionID string) (*CheckoutStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get checkout session %s: %w", sessionID, err)
	}

	return &CheckoutStatus{
		SessionID:   sess.ID,
		State:       sessionState(sess.Status, sess.PaymentStatus),
		AmountCents: sess.AmountTotal,
	}, nil
}

// sessionState traduz o par status/payment_status da sessão do Stripe para o
// estado neutro do gateway. Sessão encerrada (complete) sem liquidação é
// pagamento recusado ou não pagável, não abandono.
func sessionState(
	status stripe.CheckoutSessionStatus,
	payment stripe.CheckoutSessionPaymentStatus,
) CheckoutState {

	switch {
	case payment == stripe.CheckoutSessionPaymentStatusPaid:
		return StatePaid
	case status == stripe.CheckoutSessionStatusExpired:
		return StateAbandoned
	case status == stripe.CheckoutSessionStatusComplete &&
		payment == stripe.CheckoutSessionPaymentStatusUnpaid:
		return StateFailed
	}
	return StateOpen
}

// ------------------------------------------------------
// Catálogo de preços (objetos imutáveis)
// ------------------------------------------------------

func (g *StripeGateway) CreatePrice(ctx context.Context, spec PriceSpec) (*PriceRef, error) {
	productID := spec.ProductRef

	if productID == "" {
		prodParams := &stripe.ProductParams{
			Name: stripe.String(spec.Name),
		}
		prodParams.Context = ctx
		if spec.Description != "" {
			prodParams.Description = stripe.String(spec.Description)
		}

		prod, err := g.api.Products.New(prodParams)
		if err != nil {
			return nil, fmt.Errorf("stripe: create product: %w", err)
		}
		productID = prod.ID
	}

	currency := spec.Currency
	if currency == "" {
		currency = g.currency
	}

	priceParams := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(spec.AmountCents),
		Currency:   stripe.String(currency),
	}
	priceParams.Context = ctx

	price, err := g.api.Prices.New(priceParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: create price: %w", err)
	}

	return &PriceRef{
		ProductRef: productID,
		PriceRef:   price.ID,
	}, nil
}

func (g *StripeGateway) GetPrice(ctx context.Context, priceRef string) (*PriceInfo, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx

	price, err := g.api.Prices.Get(priceRef, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get price %s: %w", priceRef, err)
	}

	return &PriceInfo{
		Ref:         price.ID,
		Active:      price.Active,
		AmountCents: price.UnitAmount,
	}, nil
}

// DeactivatePrice desativa (não apaga) um preço antigo, preservando o
// histórico de reservas já pagas com ele.
func (g *StripeGateway) DeactivatePrice(ctx context.Context, priceRef string) error {
	params := &stripe.PriceParams{
		Active: stripe.Bool(false),
	}
	params.Context = ctx

	if _, err := g.api.Prices.Update(priceRef, params); err != nil {
		return fmt.Errorf("stripe: deactivate price %s: %w", priceRef, err)
	}
	return nil
}

// ------------------------------------------------------
// Onboarding de conta conectada
// ------------------------------------------------------

func (g *StripeGateway) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx

	acct, err := g.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create connected account: %w", err)
	}
	return acct.ID, nil
}

func (g *StripeGateway) OnboardingLink(ctx context.Context, accountRef, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountRef),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create onboarding link: %w", err)
	}
	return link.URL, nil
}

func (g *StripeGateway) GetAccount(ctx context.Context, accountRef string) (*AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := g.api.Accounts.GetByID(accountRef, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: get account %s: %w", accountRef, err)
	}

	return &AccountStatus{
		Ref:                acct.ID,
		OnboardingComplete: acct.DetailsSubmitted && acct.ChargesEnabled,
		ChargesEnabled:     acct.ChargesEnabled,
		PayoutsEnabled:     acct.PayoutsEnabled,
	}, nil
}

// Compile-time checks
var (
	_ Gateway          = (*StripeGateway)(nil)
	_ PriceCatalog     = (*StripeGateway)(nil)
	_ AccountOnboarder = (*StripeGateway)(nil)
)

package payments

import "context"

// ======================================================
// TIPOS DO GATEWAY
// ======================================================

type PriceSpec struct {
	Name        string
	Description string
	AmountCents int64
	Currency    string

	// ProductRef reaproveita um produto já criado no processador; vazio cria
	// um novo par produto/preço.
	ProductRef string
}

type PriceRef struct {
	ProductRef string
	PriceRef   string
}

type PriceInfo struct {
	Ref         string
	Active      bool
	AmountCents int64
}

type CheckoutSpec struct {
	BookingID     uint
	TransactionID string

	// PriceRef quando o provedor tem catálogo de preços; senão o valor vai
	// inline em Title/AmountCents.
	PriceRef    string
	Title       string
	Description string
	AmountCents int64
	Currency    string

	// Split: FeeCents fica com a plataforma, o restante vai para a conta
	// conectada do profissional.
	FeeCents           int64
	DestinationAccount string

	SuccessURL string
	CancelURL  string
}

type CheckoutHandle struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type CheckoutState string

const (
	// Sessão aberta, pagamento ainda não liquidado.
	StateOpen CheckoutState = "open"
	// Pagamento integralmente liquidado.
	StatePaid CheckoutState = "paid"
	// Checkout abandonado/expirado sem pagamento.
	StateAbandoned CheckoutState = "abandoned"
	// Processador reportou sessão não pagável ou pagamento recusado.
	StateFailed CheckoutState = "failed"
)

type CheckoutStatus struct {
	SessionID   string
	State       CheckoutState
	AmountCents int64
}

type AccountStatus struct {
	Ref                string
	OnboardingComplete bool
	ChargesEnabled     bool
	PayoutsEnabled     bool
}

// ======================================================
// CONTRATOS
// ======================================================

// Gateway é o mínimo que todo provedor de checkout precisa oferecer.
type Gateway interface {
	Name() string
	CreateCheckout(ctx context.Context, spec CheckoutSpec) (*CheckoutHandle, error)
	GetCheckout(ctx context.Context, sessionID string) (*CheckoutStatus, error)
}

// PriceCatalog é a capacidade opcional de manter objetos de preço imutáveis
// no processador (criar, consultar, desativar — nunca mutar nem apagar).
type PriceCatalog interface {
	CreatePrice(ctx context.Context, spec PriceSpec) (*PriceRef, error)
	GetPrice(ctx context.Context, priceRef string) (*PriceInfo, error)
	DeactivatePrice(ctx context.Context, priceRef string) error
}

// AccountOnboarder é a capacidade opcional de criar contas conectadas e
// links de onboarding hospedados.
type AccountOnboarder interface {
	CreateAccount(ctx context.Context, email string) (string, error)
	OnboardingLink(ctx context.Context, accountRef, refreshURL, returnURL string) (string, error)
	GetAccount(ctx context.Context, accountRef string) (*AccountStatus, error)
}

package payments

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

// Router entrega o gateway certo conforme o provedor configurado na conta
// externa do profissional, com um default global. As capacidades opcionais
// (catálogo de preço, onboarding) são expostas por type assertion, então um
// provedor sem catálogo cai naturalmente no caminho de valor inline.
type Router struct {
	gateways map[string]Gateway
	def      string
}

func NewRouter(def string) *Router {
	return &Router{
		gateways: make(map[string]Gateway),
		def:      strings.ToLower(def),
	}
}

func (r *Router) Register(g Gateway) {
	r.gateways[g.Name()] = g
}

// Resolve normaliza o nome do provedor, caindo no default quando vazio.
func (r *Router) Resolve(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = r.def
	}
	return provider
}

func (r *Router) Gateway(provider string) (Gateway, error) {
	g, ok := r.gateways[r.Resolve(provider)]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeProcessorError)
	}
	return g, nil
}

func (r *Router) Catalog(provider string) (PriceCatalog, bool) {
	g, err := r.Gateway(provider)
	if err != nil {
		return nil, false
	}
	c, ok := g.(PriceCatalog)
	return c, ok
}

func (r *Router) Onboarder(provider string) (AccountOnboarder, bool) {
	g, err := r.Gateway(provider)
	if err != nil {
		return nil, false
	}
	o, ok := g.(AccountOnboarder)
	return o, ok
}

// CreateCheckout delega para o provedor resolvido.
func (r *Router) CreateCheckout(ctx context.Context, provider string, spec CheckoutSpec) (*CheckoutHandle, error) {
	g, err := r.Gateway(provider)
	if err != nil {
		return nil, err
	}
	return g.CreateCheckout(ctx, spec)
}

func (r *Router) GetCheckout(ctx context.Context, provider, sessionID string) (*CheckoutStatus, error) {
	g, err := r.Gateway(provider)
	if err != nil {
		return nil, err
	}
	return g.GetCheckout(ctx, sessionID)
}

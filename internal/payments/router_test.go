package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

// Gateway que só sabe fazer checkout, sem catálogo nem onboarding.
type plainGateway struct{ name string }

func (g *plainGateway) Name() string { return g.name }

func (g *plainGateway) CreateCheckout(context.Context, CheckoutSpec) (*CheckoutHandle, error) {
	return &CheckoutHandle{SessionID: "sess_1", URL: "https://pay.example/sess_1"}, nil
}

func (g *plainGateway) GetCheckout(context.Context, string) (*CheckoutStatus, error) {
	return &CheckoutStatus{State: StateOpen}, nil
}

func TestRouterResolveNormalizesAndDefaults(t *testing.T) {
	r := NewRouter("Stripe")

	assert.Equal(t, "stripe", r.Resolve(""))
	assert.Equal(t, "stripe", r.Resolve("  STRIPE "))
	assert.Equal(t, "mercadopago", r.Resolve("MercadoPago"))
}

func TestRouterUnknownProvider(t *testing.T) {
	r := NewRouter("stripe")
	r.Register(&plainGateway{name: "stripe"})

	_, err := r.Gateway("pagseguro")
	assert.Equal(t, httperr.CodeProcessorError, httperr.BusinessCode(err))

	_, err = r.CreateCheckout(context.Background(), "pagseguro", CheckoutSpec{})
	assert.Equal(t, httperr.CodeProcessorError, httperr.BusinessCode(err))
}

func TestRouterFallsBackToDefault(t *testing.T) {
	r := NewRouter("stripe")
	r.Register(&plainGateway{name: "stripe"})

	g, err := r.Gateway("")
	require.NoError(t, err)
	assert.Equal(t, "stripe", g.Name())
}

// Capacidades opcionais: um provedor sem catálogo/onboarding simplesmente
// não aparece nessas consultas.
func TestRouterOptionalCapabilities(t *testing.T) {
	r := NewRouter("plain")
	r.Register(&plainGateway{name: "plain"})

	_, ok := r.Catalog("plain")
	assert.False(t, ok)

	_, ok = r.Onboarder("plain")
	assert.False(t, ok)
}

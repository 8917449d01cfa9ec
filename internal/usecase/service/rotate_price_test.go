package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
)

// Catálogo fake mínimo: só o que a rotação de preço toca.
type catalogGateway struct {
	seq         int
	prices      map[string]*payments.PriceInfo
	deactivated []string
}

func newCatalogGateway() *catalogGateway {
	return &catalogGateway{prices: map[string]*payments.PriceInfo{}}
}

func (g *catalogGateway) Name() string { return "fakepay" }

func (g *catalogGateway) CreateCheckout(context.Context, payments.CheckoutSpec) (*payments.CheckoutHandle, error) {
	return nil, nil
}

func (g *catalogGateway) GetCheckout(context.Context, string) (*payments.CheckoutStatus, error) {
	return nil, nil
}

func (g *catalogGateway) CreatePrice(_ context.Context, spec payments.PriceSpec) (*payments.PriceRef, error) {
	g.seq++
	ref := fmt.Sprintf("price_%d", g.seq)
	g.prices[ref] = &payments.PriceInfo{Ref: ref, Active: true, AmountCents: spec.AmountCents}

	productRef := spec.ProductRef
	if productRef == "" {
		productRef = fmt.Sprintf("prod_%d", g.seq)
	}
	return &payments.PriceRef{ProductRef: productRef, PriceRef: ref}, nil
}

func (g *catalogGateway) GetPrice(_ context.Context, ref string) (*payments.PriceInfo, error) {
	return g.prices[ref], nil
}

func (g *catalogGateway) DeactivatePrice(_ context.Context, ref string) error {
	if info, ok := g.prices[ref]; ok {
		info.Active = false
	}
	g.deactivated = append(g.deactivated, ref)
	return nil
}

func strPtr(s string) *string { return &s }

// Preço editado: cria objeto novo (mesmo produto), aponta o serviço para
// ele e desativa o antigo — o processador nunca tem preços mutados.
func TestRotatePriceSwapsAndDeactivates(t *testing.T) {
	gw := newCatalogGateway()
	router := payments.NewRouter("fakepay")
	router.Register(gw)

	// estado como ficaria após a primeira venda
	firstRef, err := gw.CreatePrice(context.Background(), payments.PriceSpec{AmountCents: 5000})
	require.NoError(t, err)

	svc := &models.Service{
		ID:                 5,
		Name:               "Manicure completa",
		Price:              80.0, // valor novo
		ExternalProductRef: strPtr(firstRef.ProductRef),
		ExternalPriceRef:   strPtr(firstRef.PriceRef),
	}

	uc := NewRotatePrice(router, "brl")
	require.NoError(t, uc.Execute(context.Background(), "fakepay", svc))

	assert.NotEqual(t, firstRef.PriceRef, *svc.ExternalPriceRef)
	assert.Equal(t, firstRef.ProductRef, *svc.ExternalProductRef, "produto preservado")

	assert.Equal(t, []string{firstRef.PriceRef}, gw.deactivated)
	assert.False(t, gw.prices[firstRef.PriceRef].Active)

	newInfo := gw.prices[*svc.ExternalPriceRef]
	require.NotNil(t, newInfo)
	assert.Equal(t, int64(8000), newInfo.AmountCents)
}

// Serviço nunca vendido: nada a rotacionar, a primeira venda já cria o
// preço com o valor novo.
func TestRotatePriceNoopWithoutExistingRef(t *testing.T) {
	gw := newCatalogGateway()
	router := payments.NewRouter("fakepay")
	router.Register(gw)

	svc := &models.Service{ID: 5, Price: 80.0}

	uc := NewRotatePrice(router, "brl")
	require.NoError(t, uc.Execute(context.Background(), "fakepay", svc))

	assert.Zero(t, gw.seq)
	assert.Nil(t, svc.ExternalPriceRef)
}

// Provedor sem catálogo (valor inline no checkout): no-op.
func TestRotatePriceNoopWithoutCatalog(t *testing.T) {
	router := payments.NewRouter("inline-only")

	svc := &models.Service{
		ID:               5,
		Price:            80.0,
		ExternalPriceRef: strPtr("price_1"),
	}

	uc := NewRotatePrice(router, "brl")
	require.NoError(t, uc.Execute(context.Background(), "inline-only", svc))

	assert.Equal(t, "price_1", *svc.ExternalPriceRef, "referência intocada")
}

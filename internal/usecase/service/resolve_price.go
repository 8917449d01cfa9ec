package service

import (
	"context"
	"log"

	domain "github.com/BruksfildServices01/beauty-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
)

// ======================================================
// USE CASE
// ======================================================

// ResolvePrice garante que o serviço tenha um preço válido no catálogo do
// processador, criando-o sob demanda na primeira venda. Serviços nunca
// nascem com referência externa; ela aparece aqui.
type ResolvePrice struct {
	repo     domain.Repository
	router   *payments.Router
	currency string
}

func NewResolvePrice(
	repo domain.Repository,
	router *payments.Router,
	currency string,
) *ResolvePrice {
	return &ResolvePrice{repo: repo, router: router, currency: currency}
}

// Execute devolve a referência de preço utilizável para o serviço.
// Reusa a referência cacheada quando ela ainda está ativa e bate com o
// valor atual; senão cria um preço novo (reaproveitando o produto) e
// persiste as referências.
func (uc *ResolvePrice) Execute(
	ctx context.Context,
	provider string,
	svc *models.Service,
) (string, error) {

	catalog, ok := uc.router.Catalog(provider)
	if !ok {
		return "", httperr.ErrBusiness(httperr.CodePriceResolution)
	}

	wantCents := payments.ToMinorUnits(svc.Price)

	// --------------------------------------------------
	// Referência cacheada ainda serve?
	// --------------------------------------------------
	if svc.ExternalPriceRef != nil && *svc.ExternalPriceRef != "" {
		info, err := catalog.GetPrice(ctx, *svc.ExternalPriceRef)
		if err == nil && info.Active && info.AmountCents == wantCents {
			return info.Ref, nil
		}
		// Referência obsoleta (desativada, valor antigo ou sumiu do
		// processador): cai para a criação abaixo.
		log.Printf("price resolve: stale ref %q for service %d, recreating", *svc.ExternalPriceRef, svc.ID)
	}

	productRef := ""
	if svc.ExternalProductRef != nil {
		productRef = *svc.ExternalProductRef
	}

	ref, err := catalog.CreatePrice(ctx, payments.PriceSpec{
		Name:        svc.Name,
		Description: svc.Description,
		AmountCents: wantCents,
		Currency:    uc.currency,
		ProductRef:  productRef,
	})
	if err != nil {
		return "", err
	}

	svc.ExternalProductRef = &ref.ProductRef
	svc.ExternalPriceRef = &ref.PriceRef

	if err := uc.repo.SaveServiceRefs(ctx, svc); err != nil {
		return "", err
	}

	return ref.PriceRef, nil
}

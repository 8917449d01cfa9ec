package service

import (
	"context"
	"log"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
	"github.com/BruksfildServices01/beauty-marketplace/internal/payments"
)

// RotatePrice troca a referência de preço externa quando o valor do serviço
// muda: preços no processador são imutáveis, então criamos um novo objeto
// (mesmo produto), apontamos o serviço para ele e desativamos o antigo.
// Reservas já criadas não são afetadas — o valor delas está congelado.
type RotatePrice struct {
	router   *payments.Router
	currency string
}

func NewRotatePrice(router *payments.Router, currency string) *RotatePrice {
	return &RotatePrice{router: router, currency: currency}
}

// Execute muta as referências em svc; a persistência fica com o chamador,
// que já está salvando a edição do serviço.
func (uc *RotatePrice) Execute(
	ctx context.Context,
	provider string,
	svc *models.Service,
) error {

	catalog, ok := uc.router.Catalog(provider)
	if !ok {
		// Provedor sem catálogo: nada a trocar, o valor vai inline no
		// checkout.
		return nil
	}

	if svc.ExternalPriceRef == nil || *svc.ExternalPriceRef == "" {
		// Nunca foi vendido; a primeira venda cria o preço já com o
		// valor novo.
		return nil
	}

	oldRef := *svc.ExternalPriceRef

	productRef := ""
	if svc.ExternalProductRef != nil {
		productRef = *svc.ExternalProductRef
	}

	ref, err := catalog.CreatePrice(ctx, payments.PriceSpec{
		Name:        svc.Name,
		Description: svc.Description,
		AmountCents: payments.ToMinorUnits(svc.Price),
		Currency:    uc.currency,
		ProductRef:  productRef,
	})
	if err != nil {
		return err
	}

	svc.ExternalProductRef = &ref.ProductRef
	svc.ExternalPriceRef = &ref.PriceRef

	// Desativação do preço antigo é best-effort: ele não está mais
	// referenciado por ninguém.
	if err := catalog.DeactivatePrice(ctx, oldRef); err != nil {
		log.Printf("price rotate: failed to deactivate old ref %q: %v", oldRef, err)
	}

	return nil
}

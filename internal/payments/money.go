package payments

import "math"

// Conversão reais ⇄ centavos definida em UM lugar só. Resolver de preço e
// checkout usam a mesma regra; nunca converter na mão nos call sites.

// ToMinorUnits converte um valor decimal para a menor unidade do processador
// (centavos): multiplica por 100 e arredonda half-up.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// FromMinorUnits é a volta, usada só para montar payloads de processadores
// que trabalham em unidade decimal.
func FromMinorUnits(cents int64) float64 {
	return float64(cents) / 100
}

// PlatformFee calcula a taxa da plataforma em centavos: percentual do total,
// arredondado para BAIXO. O repasse do profissional é o restante.
func PlatformFee(totalCents int64, percent int64) int64 {
	if totalCents <= 0 || percent <= 0 {
		return 0
	}
	return totalCents * percent / 100
}

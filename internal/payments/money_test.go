package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnitsRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(5000), ToMinorUnits(50.0))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))

	// meio centavo sobe
	assert.Equal(t, int64(1001), ToMinorUnits(10.005))

	// floats binários que "quase" são o valor certo não podem perder um
	// centavo (29.99 não é exato em float64)
	assert.Equal(t, int64(2999), ToMinorUnits(29.99))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, 19.99, FromMinorUnits(1999))
	assert.Equal(t, 0.0, FromMinorUnits(0))
}

func TestPlatformFeeFloors(t *testing.T) {
	// 10% de R$50,00: 500 para a plataforma, 4500 de repasse
	fee := PlatformFee(5000, 10)
	assert.Equal(t, int64(500), fee)
	assert.Equal(t, int64(4500), 5000-fee)

	// fração trunca para baixo: 10% de 1999 = 199,9 → 199
	assert.Equal(t, int64(199), PlatformFee(1999, 10))

	assert.Equal(t, int64(0), PlatformFee(0, 10))
	assert.Equal(t, int64(0), PlatformFee(5000, 0))
}

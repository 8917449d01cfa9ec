package models

import "time"

// Lançamento de receita criado na confirmação do pagamento. A unicidade por
// booking_id é o que torna a confirmação idempotente: reprocessar o retorno do
// checkout nunca duplica receita.
type LedgerEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BookingID      uint `gorm:"uniqueIndex;not null" json:"booking_id"`
	ProfessionalID uint `gorm:"index" json:"professional_id"`

	GrossCents int64 `json:"gross_cents"`
	FeeCents   int64 `json:"fee_cents"`
	NetCents   int64 `json:"net_cents"`

	CreatedAt time.Time `json:"created_at"`
}

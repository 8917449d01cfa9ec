package models

import "time"

// Intervalo bloqueado pelo profissional: nenhum slot pode ser reservado dentro dele.
// Invariante: EndsAt > StartsAt. Sobreposição com outro intervalo do mesmo
// profissional é rejeitada na criação.
type BlockedInterval struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"index" json:"professional_id"`

	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`
	Reason   string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}

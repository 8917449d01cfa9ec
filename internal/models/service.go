package models

import "time"

type Service struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `json:"professional_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Active      bool    `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	// Referências no processador de pagamentos (nulas até a primeira venda)
	ExternalProductRef *string `gorm:"size:120" json:"external_product_ref"`
	ExternalPriceRef   *string `gorm:"size:120" json:"external_price_ref"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ProfessionalID uint         `json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"professional"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Location string `gorm:"size:255" json:"location"`

	// Preço congelado no momento da reserva; edições posteriores do serviço
	// não alteram reservas existentes.
	TotalAmount float64 `json:"total_amount"`

	// Chave de reconciliação com o processador externo (única por reserva)
	CheckoutSessionID *string `gorm:"size:140;uniqueIndex" json:"checkout_session_id"`
	TransactionID     string  `gorm:"size:40;index" json:"transaction_id"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`
	FailedAt    *time.Time `json:"failed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

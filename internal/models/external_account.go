package models

import "time"

// Conta no processador de pagamentos (uma por profissional). AccountRef fica
// nulo até o onboarding; nenhum serviço pode ser vendido antes disso.
type ExternalAccount struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"uniqueIndex" json:"professional_id"`

	Provider   string  `gorm:"size:20;default:'stripe'" json:"provider"`
	AccountRef *string `gorm:"size:120" json:"account_ref"`

	OnboardingComplete bool `json:"onboarding_complete"`
	ChargesEnabled     bool `json:"charges_enabled"`
	PayoutsEnabled     bool `json:"payouts_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPayable indica se a conta pode receber um split de pagamento.
func (a *ExternalAccount) IsPayable() bool {
	return a != nil && a.AccountRef != nil && *a.AccountRef != "" && a.OnboardingComplete
}

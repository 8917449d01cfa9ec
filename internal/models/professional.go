package models

import "time"

// Perfil profissional vinculado a um User com role=professional
type Professional struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone   string `gorm:"size:20" json:"phone"`
	Address string `gorm:"size:255" json:"address"`
	Bio     string `gorm:"size:500" json:"bio"`

	Timezone          string `gorm:"size:50" json:"timezone"`
	MinAdvanceMinutes int    `gorm:"default:120" json:"min_advance_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-marketplace/internal/models"
)

type Logger struct {
	db *gorm.DB
}

// New recebe a conexão elevada: eventos disparados por clientes geram
// registros em linhas do profissional.
func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	professionalID uint,
	userID *uint,
	action string,
	entity string,
	entityID *uint,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	log := models.AuditLog{
		ProfessionalID: professionalID,
		UserID:         userID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		Metadata:       metaJSON,
	}

	return l.db.Create(&log).Error
}

package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Classificadores de erro do Postgres. O fluxo de reserva depende de dois
// deles: unique_violation é o backstop contra double-booking e
// insufficient_privilege é o gatilho do caminho elevado de acesso.

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return pgCode(err) == "23505"
}

func IsExclusionConflict(err error) bool {
	return pgCode(err) == "23P01"
}

// IsAuthorizationDenied reconhece rejeições de autorização do storage
// (insufficient_privilege, inclusive violações de row-level security).
func IsAuthorizationDenied(err error) bool {
	return pgCode(err) == "42501"
}

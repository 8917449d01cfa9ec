package storage

import "gorm.io/gorm"

// Scope identifica qual caminho de acesso ao storage um call site usa:
// o do próprio chamador (sujeito a autorização por linha) ou o elevado
// (credencial de serviço). Todo acesso passa por Store.DB(scope) — não
// existe handle ambiente/global.
type Scope int

const (
	ScopeCaller Scope = iota
	ScopeElevated
)

func (s Scope) String() string {
	if s == ScopeElevated {
		return "elevated"
	}
	return "caller"
}

type Store struct {
	scoped   *gorm.DB
	elevated *gorm.DB
}

// NewStore cria o store com os dois níveis de acesso. elevated pode ser o
// mesmo handle de scoped quando não há credencial de serviço configurada;
// nesse caso o fallback vira no-op.
func NewStore(scoped, elevated *gorm.DB) *Store {
	return &Store{scoped: scoped, elevated: elevated}
}

func (s *Store) DB(scope Scope) *gorm.DB {
	if scope == ScopeElevated && s.elevated != nil {
		return s.elevated
	}
	return s.scoped
}

// HasElevated informa se existe um caminho elevado distinto do comum.
func (s *Store) HasElevated() bool {
	return s.elevated != nil && s.elevated != s.scoped
}

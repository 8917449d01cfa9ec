package storage

import (
	"context"
	"log"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/beauty-marketplace/internal/httperr"
)

// WithAuthFallback executa op no escopo do chamador e, somente quando o
// storage rejeita por autorização (classe reconhecível, não qualquer erro),
// repete uma única vez no caminho elevado. Se o caminho elevado também
// falhar — ou não existir — o erro ORIGINAL de autorização é devolvido, para
// que o chamador distinga "não permitido" de "serviço indisponível".
// É a cadeia de duas entradas do executor de estratégias.
func WithAuthFallback(ctx context.Context, store *Store, op func(db *gorm.DB) error) error {
	strategies := []Strategy{
		{Name: "caller", Scope: ScopeCaller, Run: op},
	}
	if store.HasElevated() {
		strategies = append(strategies, Strategy{
			Name:           "elevated",
			Scope:          ScopeElevated,
			OnlyAfterAuthz: true,
			Run:            op,
		})
	}
	return RunStrategies(ctx, store, strategies)
}

// Strategy é um passo nomeado de uma cadeia ordenada de tentativas de acesso.
// OnlyAfterAuthz marca um passo de contingência: ele só roda se um passo
// anterior tiver falhado por autorização.
type Strategy struct {
	Name           string
	Scope          Scope
	OnlyAfterAuthz bool
	Run            func(db *gorm.DB) error
}

// RunStrategies tenta as estratégias em ordem; o primeiro sucesso encerra.
// Quando todas falham, devolve o primeiro erro de autorização (o original)
// ou, não havendo nenhum, o último erro observado.
func RunStrategies(ctx context.Context, store *Store, strategies []Strategy) error {
	var firstAuthErr error
	var lastErr error

	for _, st := range strategies {
		if st.OnlyAfterAuthz && firstAuthErr == nil {
			continue
		}

		err := st.Run(store.DB(st.Scope).WithContext(ctx))
		if err == nil {
			return nil
		}

		if firstAuthErr == nil && httperr.IsAuthorizationDenied(err) {
			firstAuthErr = err
		}
		lastErr = err

		// Rejeição de regra de negócio não é falha de acesso; sem log.
		if httperr.BusinessCode(err) == "" {
			log.Printf("storage: strategy %q (%s) failed: %v", st.Name, st.Scope, err)
		}
	}

	if firstAuthErr != nil {
		return firstAuthErr
	}
	return lastErr
}

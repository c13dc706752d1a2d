package auth

import (
	"context"

	"shophub_backend/pkg/contextkeys"
)

// Principal - аутентифицированный субъект запроса. Передается в сервисы
// явным параметром, а не вытаскивается из request-scoped состояния.
type Principal struct {
	UserID string
	Mobile string
}

// PrincipalFromContext достает принципала, положенного middleware
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextkeys.PrincipalContextKey).(Principal)
	return p, ok
}

// WithPrincipal кладет принципала в context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextkeys.PrincipalContextKey, p)
}

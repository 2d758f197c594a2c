// Package identity é o contrato com o provedor de identidade externo: dado um
// credencial opaco, devolve quem está chamando e se é administrador.
package identity

import "context"

type Identity struct {
	UserID  string `json:"userId"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// CanAccess informa se a identidade pode ler ou alterar um recurso do dono informado.
func (i Identity) CanAccess(ownerID string) bool {
	return i.IsAdmin || (i.UserID != "" && i.UserID == ownerID)
}

type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

package identity

import (
	"net/http"
	"strings"

	"github.com/mateusmacedo/go-railway/pkg/domain"
	"github.com/mateusmacedo/go-railway/pkg/infrastructure/httpapi"
)

type Middleware struct {
	resolver  Resolver
	responder *httpapi.Responder
}

func NewMiddleware(resolver Resolver, responder *httpapi.Responder) *Middleware {
	return &Middleware{resolver: resolver, responder: responder}
}

// Authenticate exige "Authorization: Bearer <token>" e coloca a identidade no contexto.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.resolver.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			m.responder.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireAdmin deve vir depois de Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		if !ok {
			m.responder.Error(w, r, domain.ErrUnauthenticated)
			return
		}
		if !id.IsAdmin {
			m.responder.Error(w, r, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

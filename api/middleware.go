package api

import (
	"net/http"

	"github.com/ebubechi-ihediwa/StellarCade/auth"
)

// identityHeader carries the authenticated caller identity. A reverse
// proxy or gateway in front of this service is expected to authenticate
// the request and set the header; the service itself only threads the
// identity through to the authorizer.
const identityHeader = "X-Identity"

// IdentityMiddleware copies the authenticated identity from the request
// header into the request context.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity := r.Header.Get(identityHeader); identity != "" {
			r = r.WithContext(auth.WithIdentity(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

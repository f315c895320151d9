package chi

import (
	"net/http"
	"strings"

	"github.com/kailas-cloud/caselens/internal/domain"
)

const bearerPrefix = "bearer "

// BearerForwardMiddleware places the caller's bearer token in the request
// context so backend calls carry it unchanged. Tokens are not validated here;
// the backend decides. Headers using another scheme are ignored.
func BearerForwardMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r.Header.Get("Authorization")); token != "" {
				r = r.WithContext(domain.ContextWithBearerToken(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/de-tools/price-atlas/pkg/session"
	"github.com/rs/zerolog"
)

const bearerPrefix = "Bearer "

// Session attaches a session to every request. With an empty token every
// request is authorized; otherwise only requests carrying
// "Authorization: Bearer <token>" are. Unauthorized requests still reach the
// handlers, which decide how to reject them.
func Session(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s := session.Session{Authorized: token == ""}

			if token != "" {
				header := req.Header.Get("Authorization")
				if strings.HasPrefix(header, bearerPrefix) {
					presented := strings.TrimPrefix(header, bearerPrefix)
					s.Authorized = subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
				}
				if s.Authorized {
					s.Subject = "api-token"
				} else {
					zerolog.Ctx(req.Context()).Debug().Msg("request carries no valid api token")
				}
			}

			next.ServeHTTP(w, req.WithContext(session.WithSession(req.Context(), s)))
		})
	}
}

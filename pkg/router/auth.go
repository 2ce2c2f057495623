package router

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"mailer/pkg/errutil"
	"mailer/pkg/goutil"
	"mailer/pkg/httputil"

	"github.com/rs/zerolog/log"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type basicAuthMiddleware struct {
	username     string
	passwordHash string
}

// NewBasicAuthMiddleware guards a route with HTTP basic auth.
// passwordHash is a bcrypt hash of the expected password.
func NewBasicAuthMiddleware(username, passwordHash string) Middleware {
	return &basicAuthMiddleware{
		username:     username,
		passwordHash: passwordHash,
	}
}

func (m *basicAuthMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		username, password, ok := r.BasicAuth()
		if !ok {
			log.Ctx(ctx).Warn().Msg("missing basic auth credentials")
			m.returnErr(w)
			return
		}

		if subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) != 1 ||
			!goutil.CompareBCrypt(m.passwordHash, password) {
			log.Ctx(ctx).Warn().Msgf("basic auth rejected, username: %s", username)
			m.returnErr(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *basicAuthMiddleware) returnErr(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="webhooks"`)
	httputil.ReturnServerResponse(w, nil, errutil.UnauthorizedError(ErrInvalidCredentials))
}

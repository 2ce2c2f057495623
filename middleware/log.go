package middleware

import (
	"net/http"
	"time"

	"mailer/pkg/logutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Log tags the request context with a log_id and logs every request once it completes.
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := logutil.WithLogID(r.Context(), uuid.NewString())
		r = r.WithContext(ctx)

		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request completed")
	})
}

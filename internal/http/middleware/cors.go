package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// corsPreflightMaxAge is how long browsers may cache a preflight, in seconds.
const corsPreflightMaxAge = 600

// CORS lets pages served from allowedOrigins call the site API from the
// browser. "*" admits any origin. Blank entries and trailing slashes are
// dropped; with no origins left the middleware passes requests through
// untouched.
//
// Only the verbs and headers the booking pages send are allowed. Retry-After
// is exposed so the forms can tell users when to try again after a 429.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         corsPreflightMaxAge,
	})
}

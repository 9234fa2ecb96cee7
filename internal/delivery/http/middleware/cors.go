package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS returns a handler that adds CORS headers for allowed origins and answers preflight requests.
// With no allowed origins, next is returned unchanged and cross-origin browsers are refused.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return next
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "Accept-Language", "If-None-Match", RequestIDHeader},
		ExposedHeaders:   []string{"ETag", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	})
	return c.Handler(next)
}

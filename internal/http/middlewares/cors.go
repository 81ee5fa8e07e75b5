package middlewares

import (
	"net/http"
	"strings"
)

// DefaultCORSHeaders son los headers que mandan los clientes de las functions.
const DefaultCORSHeaders = "authorization, x-client-info, apikey, content-type"

// WithCORS agrega los headers CORS a toda respuesta y contesta el preflight
// OPTIONS sin body. "*" en allowed responde con el literal "*".
func WithCORS(allowed []string) Middleware {
	trim := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }

	wildcard := len(allowed) == 0
	alist := make([]string, 0, len(allowed))
	for _, v := range allowed {
		if v = trim(v); v == "*" {
			wildcard = true
		}
		alist = append(alist, v)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			allowedOrigin := ""
			if wildcard {
				allowedOrigin = "*"
			} else if origin := trim(r.Header.Get("Origin")); origin != "" {
				for _, a := range alist {
					if strings.EqualFold(origin, a) {
						allowedOrigin = origin
						break
					}
				}
				h.Add("Vary", "Origin")
			}

			if allowedOrigin != "" {
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				h.Set("Access-Control-Allow-Headers", DefaultCORSHeaders)
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-Receipt-Number, Retry-After, X-RateLimit-Remaining, X-RateLimit-Reset")
			}

			// Preflight
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

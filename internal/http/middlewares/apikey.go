package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/dropDatabas3/burtonmail/internal/http/errors"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// extractAPIKey lee el header apikey o, si no está, Authorization: Bearer.
func extractAPIKey(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("apikey")); k != "" {
		return k
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// WithAPIKey exige una API key cuyo hash bcrypt coincida con hash. hash vacío
// desactiva el chequeo. Las keys válidas se recuerdan unos minutos (por
// sha256) para no pagar bcrypt en cada request.
func WithAPIKey(hash string) Middleware {
	if hash == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	verified := gocache.New(5*time.Minute, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractAPIKey(r)
			if key == "" {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			sum := sha256.Sum256([]byte(key))
			fp := hex.EncodeToString(sum[:])
			if _, ok := verified.Get(fp); !ok {
				if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
					logger.From(r.Context()).Warn("api key rejected", logger.Op("WithAPIKey"))
					errors.WriteError(w, errors.ErrUnauthorized)
					return
				}
				verified.SetDefault(fp, struct{}{})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package router arma el árbol de rutas (chi) del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	fnctrl "github.com/dropDatabas3/burtonmail/internal/http/controllers/functions"
	healthctrl "github.com/dropDatabas3/burtonmail/internal/http/controllers/health"
	"github.com/dropDatabas3/burtonmail/internal/http/errors"
	mw "github.com/dropDatabas3/burtonmail/internal/http/middlewares"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Functions *fnctrl.Controller
	Health    *healthctrl.HealthController

	// ResetLimiter limita /password-reset (nil = sin límite).
	ResetLimiter mw.RateLimiter
	// APIKeyHash es el bcrypt de la API key de las functions ("" = abierto).
	APIKeyHash  string
	CORSOrigins []string
	// TrustedProxies habilita X-Forwarded-For sólo detrás de esos proxies.
	TrustedProxies mw.TrustedProxies

	// Metrics es el handler de /metrics (nil = no se expone en este router).
	Metrics http.Handler
}

// New construye el handler raíz.
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	// CORS en la raíz: 404/405 y panics recuperados también llevan los headers.
	r.Use(mw.Stack(
		mw.WithRecover(),
		mw.WithCORS(d.CORSOrigins),
		mw.WithRequestID(),
		mw.WithClientIP(d.TrustedProxies),
		mw.WithMetrics(),
	)...)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		errors.WriteError(w, errors.ErrNotFound.WithMessage("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		errors.WriteError(w, errors.ErrMethodNotAllowed)
	})

	// Health sin logging (muy frecuentes) ni auth.
	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	if d.Functions != nil {
		r.Route("/functions/v1", func(fr chi.Router) {
			// El preflight lo resuelve CORS en la raíz, antes de la API key.
			fr.Use(mw.Stack(
				mw.WithLogging(),
				mw.WithAPIKey(d.APIKeyHash),
			)...)

			fr.Post("/send-email", d.Functions.SendEmail)
			fr.Post("/send-payment-receipt", d.Functions.PaymentReceipt)
			fr.With(mw.WithRateLimit(mw.RateLimitConfig{
				Limiter: d.ResetLimiter,
				KeyFunc: mw.MemberRateKey,
			})).Post("/password-reset", d.Functions.PasswordReset)
		})
	}

	return r
}

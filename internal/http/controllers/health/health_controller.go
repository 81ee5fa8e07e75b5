// Package health contiene el controller para health checks.
package health

import (
	"context"
	"net/http"
	"time"

	dto "github.com/dropDatabas3/burtonmail/internal/http/dto/health"
	"github.com/dropDatabas3/burtonmail/internal/http/helpers"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// Pinger es un componente con chequeo de salud (pg pool, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps son las dependencias del controller.
type Deps struct {
	Version  string
	Relay    string
	TestMode bool
	// Components se chequean en /readyz; nil = no configurado.
	Components map[string]Pinger
}

// HealthController maneja /healthz y /readyz.
type HealthController struct {
	deps Deps
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(d Deps) *HealthController {
	return &HealthController{deps: d}
}

// Healthz maneja GET /healthz (liveness, sin dependencias).
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz maneja GET /readyz.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	log := logger.From(ctx).With(logger.Op("HealthController.Readyz"))

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    c.deps.Version,
		TestMode:   c.deps.TestMode,
		Relay:      c.deps.Relay,
		Components: make(map[string]string, len(c.deps.Components)),
	}
	for name, p := range c.deps.Components {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			log.Warn("component unhealthy", logger.Component(name), logger.Err(err))
			resp.Components[name] = "down"
			resp.Status = "unavailable"
			continue
		}
		resp.Components[name] = "up"
	}

	if c.deps.Version != "" {
		w.Header().Set("X-Service-Version", c.deps.Version)
	}
	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}

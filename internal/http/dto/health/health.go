// Package health contiene los DTOs de /readyz.
package health

// HealthResponse es la respuesta de /readyz.
type HealthResponse struct {
	Status     string            `json:"status"` // ready | degraded | unavailable
	Version    string            `json:"version,omitempty"`
	TestMode   bool              `json:"test_mode"`
	Relay      string            `json:"relay"`
	Components map[string]string `json:"components"`
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del subsistema de notificaciones. Viven en un paquete propio para
// que email, ledger y notify puedan usarlas sin ciclos de import.

var (
	// DispatchTotal cuenta envíos terminados por kind y estado final (sent|failed).
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_dispatch_total",
		Help: "Envíos de email por kind y resultado",
	}, []string{"kind", "status"})

	// RelayLatency mide la llamada al relay externo.
	RelayLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notify_relay_latency_seconds",
		Help:    "Latencia de la llamada al relay de email",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"relay"})

	// SecondaryFailures cuenta escrituras best-effort que fallaron
	// (ledger mark_failed, adjuntar message id al recibo).
	SecondaryFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_secondary_failures_total",
		Help: "Escrituras best-effort fallidas por operación",
	}, []string{"op"})

	// ReceiptsCreated cuenta recibos persistidos.
	ReceiptsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_receipts_created_total",
		Help: "Recibos de pago creados",
	})

	// HTTPRequests y HTTPDuration los alimenta middlewares.WithMetrics.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Register registra las métricas en reg (o el default si es nil).
// Tolera AlreadyRegisteredError para que tests y main puedan llamarlo varias veces.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		DispatchTotal, RelayLatency, SecondaryFailures, ReceiptsCreated, HTTPRequests, HTTPDuration,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

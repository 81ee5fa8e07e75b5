package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/ledger"
	"github.com/dropDatabas3/burtonmail/internal/metrics"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// Ledger es lo que el Dispatcher necesita del DeliveryLedger.
type Ledger interface {
	Open(ctx context.Context, in ledger.OpenInput) (*repository.LedgerEntry, error)
	MarkSent(ctx context.Context, entryID, providerMessageID string) error
	MarkFailed(ctx context.Context, entryID, errorMessage string)
}

// DispatchResult es el resultado de un envío aceptado por el relay.
type DispatchResult struct {
	EntryID           string
	ProviderMessageID string
	// Raw es el cuerpo JSON del relay, se devuelve tal cual por HTTP.
	Raw        []byte
	Recipients []string
}

// Dispatcher es el único camino de salida de emails.
type Dispatcher struct {
	cfg    DispatchConfig
	gate   Gate
	relay  Relay
	ledger Ledger
}

// NewDispatcher arma el dispatcher. cfg se copia: cambiarla después no tiene efecto.
func NewDispatcher(cfg DispatchConfig, relay Relay, l Ledger) *Dispatcher {
	cfg = cfg.withDefaults()
	return &Dispatcher{cfg: cfg, gate: NewGate(cfg), relay: relay, ledger: l}
}

// Gate expone el gate del dispatcher (lo usa /readyz para reportar test mode).
func (d *Dispatcher) Gate() Gate { return d.gate }

// Send abre una entrada en el ledger, resuelve destinatarios, llama una vez al
// relay y cierra la entrada. No reintenta.
func (d *Dispatcher) Send(ctx context.Context, req types.NotificationRequest) (*DispatchResult, error) {
	const op = "Dispatcher.Send"

	if len(req.Recipients) == 0 || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTML) == "" {
		return nil, notifyerr.Validation(op, "Missing required email fields: to, subject, html")
	}
	if req.Kind == "" {
		req.Kind = types.KindNotification
	}

	log := logger.From(ctx).With(
		logger.Op(op),
		logger.Kind(string(req.Kind)),
		logger.CorrelationID(req.CorrelationID),
	)

	recipients := d.gate.Resolve(req.Recipients)

	meta := make(map[string]any, len(req.Metadata)+3)
	for k, v := range req.Metadata {
		meta[k] = v
	}
	meta["relay"] = d.relay.Name()
	meta["test_mode"] = d.gate.TestMode()
	meta["delivered_to"] = recipients

	entry, err := d.ledger.Open(ctx, ledger.OpenInput{
		CorrelationID: req.CorrelationID,
		Kind:          req.Kind,
		Recipient:     req.PrimaryRecipient(),
		Subject:       req.Subject,
		Metadata:      meta,
	})
	if err != nil {
		return nil, err
	}
	log = log.With(logger.EntryID(entry.ID))

	msg := Message{
		From:    firstNonEmpty(req.From, d.cfg.From),
		To:      recipients,
		Subject: req.Subject,
		HTML:    req.HTML,
		ReplyTo: firstNonEmpty(req.ReplyTo, d.cfg.ReplyTo),
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	start := time.Now()
	res, err := d.relay.Send(sendCtx, msg)
	cancel()
	metrics.RelayLatency.WithLabelValues(d.relay.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		status, body := d.describeFailure(err)
		log.Warn("relay rejected message",
			logger.Int("upstream_status", status),
			logger.String("upstream_body", body),
			logger.Err(err),
		)
		d.ledger.MarkFailed(ctx, entry.ID, body)
		metrics.DispatchTotal.WithLabelValues(string(req.Kind), string(types.StatusFailed)).Inc()
		return nil, notifyerr.Delivery(op, status, body, err)
	}

	if err := d.ledger.MarkSent(ctx, entry.ID, res.MessageID); err != nil {
		// El relay ya aceptó el mensaje: reportar error haría que el caller
		// reintente y duplique el envío.
		metrics.SecondaryFailures.WithLabelValues("ledger_mark_sent").Inc()
		log.Error("ledger mark sent failed after delivery", logger.Err(err))
	}
	metrics.DispatchTotal.WithLabelValues(string(req.Kind), string(types.StatusSent)).Inc()

	log.Info("email sent",
		logger.MessageID(res.MessageID),
		logger.Recipients(recipients),
	)

	return &DispatchResult{
		EntryID:           entry.ID,
		ProviderMessageID: res.MessageID,
		Raw:               res.Body,
		Recipients:        recipients,
	}, nil
}

// describeFailure extrae status y texto a persistir en el ledger.
func (d *Dispatcher) describeFailure(err error) (int, string) {
	var re *RelayError
	if errors.As(err, &re) {
		return re.StatusCode, re.Body
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return 0, fmt.Sprintf("relay timeout after %s", d.cfg.Timeout)
	}
	return 0, err.Error()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

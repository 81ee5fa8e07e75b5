// Package ledger es el log durable de intentos de envío (tabla email_logs).
//
// Cada Send del dispatcher abre exactamente una entrada en pending y la cierra
// una sola vez en sent o failed. Un reintento abre una entrada nueva.
package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/metrics"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// secondaryWriteTimeout acota MarkFailed cuando el ctx del request ya venció.
const secondaryWriteTimeout = 5 * time.Second

// maxErrorMessage trunca cuerpos de error enormes del relay.
const maxErrorMessage = 8 << 10

// OpenInput son los datos con los que nace una entrada.
type OpenInput struct {
	CorrelationID string
	Kind          types.NotificationKind
	Recipient     string
	Subject       string
	Metadata      map[string]any
}

// Ledger envuelve el repositorio con la semántica de auditoría.
type Ledger struct {
	repo repository.LedgerRepository
	now  func() time.Time
}

// New crea el ledger.
func New(repo repository.LedgerRepository) *Ledger {
	return &Ledger{repo: repo, now: time.Now}
}

// Open inserta una entrada pending. Si falla el caller debe abortar el envío:
// un email sin fila en el ledger no es auditable.
func (l *Ledger) Open(ctx context.Context, in OpenInput) (*repository.LedgerEntry, error) {
	if in.Kind == "" {
		in.Kind = types.KindNotification
	}
	e := &repository.LedgerEntry{
		CorrelationID: in.CorrelationID,
		Kind:          in.Kind,
		Recipient:     in.Recipient,
		Status:        types.StatusPending,
		Subject:       in.Subject,
		CreatedAt:     l.now().UTC(),
		Metadata:      in.Metadata,
	}
	if err := l.repo.Insert(ctx, e); err != nil {
		logger.From(ctx).Error("ledger open failed",
			logger.Op("Ledger.Open"),
			logger.CorrelationID(in.CorrelationID),
			logger.Kind(string(in.Kind)),
			logger.Err(err),
		)
		return nil, notifyerr.Persistence("Ledger.Open", "Failed to record email attempt", err)
	}
	return e, nil
}

// MarkSent cierra la entrada como enviada. Llamar a lo sumo una vez por entrada.
// El relay ya aceptó el mensaje, así que la escritura no depende de que el
// caller siga conectado.
func (l *Ledger) MarkSent(ctx context.Context, entryID, providerMessageID string) error {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), secondaryWriteTimeout)
	defer cancel()

	if err := l.repo.MarkSent(wctx, entryID, l.now().UTC(), providerMessageID); err != nil {
		return notifyerr.Persistence("Ledger.MarkSent", "Failed to record email delivery", err)
	}
	return nil
}

// MarkFailed cierra la entrada como fallida. Nunca retorna error: si la
// escritura falla se loguea y se cuenta, y el error original del envío sigue
// siendo el que ve el caller.
func (l *Ledger) MarkFailed(ctx context.Context, entryID, errorMessage string) {
	if len(errorMessage) > maxErrorMessage {
		errorMessage = errorMessage[:maxErrorMessage]
	}
	errorMessage = strings.ToValidUTF8(errorMessage, "")

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), secondaryWriteTimeout)
	defer cancel()

	if err := l.repo.MarkFailed(wctx, entryID, errorMessage); err != nil {
		metrics.SecondaryFailures.WithLabelValues("ledger_mark_failed").Inc()
		logger.From(ctx).Error("ledger mark failed could not be recorded",
			logger.Op("Ledger.MarkFailed"),
			logger.EntryID(entryID),
			logger.Err(err),
		)
	}
}

// History lista los intentos de una clave de negocio, más recientes primero.
func (l *Ledger) History(ctx context.Context, correlationID string, limit int) ([]repository.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	out, err := l.repo.ListByCorrelation(ctx, correlationID, limit)
	if err != nil {
		return nil, notifyerr.Persistence("Ledger.History", "Failed to read email log", err)
	}
	return out, nil
}

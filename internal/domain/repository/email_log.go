package repository

import (
	"context"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/types"
)

// LedgerEntry es una fila de email_logs: un intento de envío y su resultado.
type LedgerEntry struct {
	ID                string
	CorrelationID     string
	Kind              types.NotificationKind
	Recipient         string
	Status            types.DeliveryStatus
	Subject           string
	CreatedAt         time.Time
	DeliveredAt       *time.Time
	ErrorMessage      string
	ProviderMessageID string
	Metadata          map[string]any
}

// LedgerRepository persiste intentos de envío.
//
// Las transiciones solo valen desde pending; una fila terminal nunca se
// reescribe. Si la fila existe pero no está pending retorna ErrNotPending,
// si no existe ErrNotFound.
type LedgerRepository interface {
	// Insert crea la fila en pending. Completa ID y CreatedAt.
	Insert(ctx context.Context, e *LedgerEntry) error

	// MarkSent pasa pending → sent.
	MarkSent(ctx context.Context, id string, deliveredAt time.Time, providerMessageID string) error

	// MarkFailed pasa pending → failed.
	MarkFailed(ctx context.Context, id string, errorMessage string) error

	// Get retorna ErrNotFound si no existe.
	Get(ctx context.Context, id string) (*LedgerEntry, error)

	// ListByCorrelation retorna los intentos más recientes primero.
	ListByCorrelation(ctx context.Context, correlationID string, limit int) ([]LedgerEntry, error)
}

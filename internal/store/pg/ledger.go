package pg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
)

type ledgerRepo struct {
	pool *pgxpool.Pool
}

func (r *ledgerRepo) Insert(ctx context.Context, e *repository.LedgerEntry) error {
	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	const q = `
		INSERT INTO email_logs (correlation_id, email_type, recipient_email, subject, status, created_at, metadata)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING id
	`
	if err := r.pool.QueryRow(ctx, q,
		nullIfEmpty(e.CorrelationID), string(e.Kind), e.Recipient, e.Subject, e.CreatedAt, metaJSON,
	).Scan(&e.ID); err != nil {
		return mapError(err)
	}
	e.Status = types.StatusPending
	return nil
}

// transition aplica un UPDATE guardado por status='pending'. Si no afecta filas
// distingue entre entrada inexistente y entrada ya terminal.
func (r *ledgerRepo) transition(ctx context.Context, id, q string, args ...any) error {
	tag, err := r.pool.Exec(ctx, q, append([]any{id}, args...)...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM email_logs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapError(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrNotPending
}

func (r *ledgerRepo) MarkSent(ctx context.Context, id string, deliveredAt time.Time, providerMessageID string) error {
	return r.transition(ctx, id, `
		UPDATE email_logs SET status = 'sent', delivered_at = $2, provider_message_id = $3
		WHERE id = $1 AND status = 'pending'
	`, deliveredAt, nullIfEmpty(providerMessageID))
}

func (r *ledgerRepo) MarkFailed(ctx context.Context, id string, errorMessage string) error {
	return r.transition(ctx, id, `
		UPDATE email_logs SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'pending'
	`, errorMessage)
}

const ledgerColumns = `id, correlation_id, email_type, recipient_email, subject, status,
	created_at, delivered_at, error_message, provider_message_id, metadata`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*repository.LedgerEntry, error) {
	var (
		e                        repository.LedgerEntry
		corr, errMsg, providerID *string
		kind, status             string
		metaJSON                 []byte
	)
	if err := row.Scan(&e.ID, &corr, &kind, &e.Recipient, &e.Subject, &status,
		&e.CreatedAt, &e.DeliveredAt, &errMsg, &providerID, &metaJSON); err != nil {
		return nil, err
	}
	e.CorrelationID = deref(corr)
	e.Kind = types.NotificationKind(kind)
	e.Status = types.DeliveryStatus(status)
	e.ErrorMessage = deref(errMsg)
	e.ProviderMessageID = deref(providerID)
	if len(metaJSON) > 0 {
		_ = json.Unmarshal(metaJSON, &e.Metadata)
	}
	return &e, nil
}

func (r *ledgerRepo) Get(ctx context.Context, id string) (*repository.LedgerEntry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM email_logs WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *ledgerRepo) ListByCorrelation(ctx context.Context, correlationID string, limit int) ([]repository.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ledgerColumns+` FROM email_logs
		WHERE correlation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, correlationID, limit)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []repository.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
)

type receiptRepo struct {
	pool *pgxpool.Pool
}

func (r *receiptRepo) Create(ctx context.Context, rc *repository.Receipt) error {
	const q = `
		INSERT INTO payment_receipts (
			payment_id, receipt_number, sent_to, amount_pence, payment_type,
			payment_method, collector_name, member_number, member_name, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, q,
		rc.PaymentID, rc.ReceiptNumber, rc.RecipientEmail, rc.AmountPence,
		nullIfEmpty(rc.PaymentType), nullIfEmpty(rc.PaymentMethod), nullIfEmpty(rc.CollectorName),
		rc.MemberNumber, nullIfEmpty(rc.MemberName), rc.CreatedAt,
	).Scan(&rc.ID)
	return mapError(err)
}

func (r *receiptRepo) AttachEmailLog(ctx context.Context, id, reference string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE payment_receipts SET email_log_id = $2 WHERE id = $1`, id, reference)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *receiptRepo) GetByPaymentID(ctx context.Context, paymentID string) (*repository.Receipt, error) {
	const q = `
		SELECT id, payment_id, receipt_number, sent_to, amount_pence, payment_type,
		       payment_method, collector_name, member_number, member_name, email_log_id, created_at
		FROM payment_receipts WHERE payment_id = $1
	`
	var (
		rc                                        repository.Receipt
		pType, pMethod, collector, name, emailLog *string
	)
	err := r.pool.QueryRow(ctx, q, paymentID).Scan(
		&rc.ID, &rc.PaymentID, &rc.ReceiptNumber, &rc.RecipientEmail, &rc.AmountPence, &pType,
		&pMethod, &collector, &rc.MemberNumber, &name, &emailLog, &rc.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	rc.PaymentType = deref(pType)
	rc.PaymentMethod = deref(pMethod)
	rc.CollectorName = deref(collector)
	rc.MemberName = deref(name)
	rc.EmailLogReference = deref(emailLog)
	return &rc, nil
}

package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
)

const uniqueViolation = "23505"

// Nombres de constraints de payment_receipts (ver migrations/postgres/notify).
const (
	constraintPaymentID     = "payment_receipts_payment_id_key"
	constraintReceiptNumber = "payment_receipts_receipt_number_key"
)

// mapError traduce errores de pgx a los sentinels del repositorio.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case constraintPaymentID:
			return repository.ErrDuplicatePayment
		case constraintReceiptNumber:
			return repository.ErrDuplicateReceiptNumber
		default:
			return repository.ErrConflict
		}
	}
	return err
}

package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indica que el recurso solicitado no existe.
	ErrNotFound = errors.New("not found")

	// ErrConflict indica un conflicto (ej: duplicado, constraint violation).
	ErrConflict = errors.New("conflict")

	// ErrDuplicatePayment: ya existe un recibo para ese payment_id.
	ErrDuplicatePayment = fmt.Errorf("%w: receipt already exists for payment", ErrConflict)

	// ErrDuplicateReceiptNumber: colisión de receipt_number (se reintenta con otro número).
	ErrDuplicateReceiptNumber = fmt.Errorf("%w: receipt number already used", ErrConflict)

	// ErrNotPending: la entrada del ledger ya está en estado terminal.
	ErrNotPending = fmt.Errorf("%w: ledger entry is not pending", ErrConflict)

	// ErrNoDatabase indica que no hay base de datos configurada.
	ErrNoDatabase = errors.New("no database configured")
)

// IsNotFound verifica si el error es ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict verifica si el error es ErrConflict (o uno de sus derivados).
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

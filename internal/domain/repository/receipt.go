package repository

import (
	"context"
	"time"
)

// Receipt es una fila de payment_receipts. Amount está en peniques.
type Receipt struct {
	ID                string
	PaymentID         string
	ReceiptNumber     string
	RecipientEmail    string
	AmountPence       int64
	PaymentType       string
	PaymentMethod     string
	CollectorName     string
	MemberNumber      string
	MemberName        string
	EmailLogReference string
	CreatedAt         time.Time
}

// ReceiptRepository persiste recibos. payment_id y receipt_number son únicos.
type ReceiptRepository interface {
	// Create inserta el recibo. Retorna ErrDuplicatePayment o
	// ErrDuplicateReceiptNumber según la constraint violada.
	Create(ctx context.Context, r *Receipt) error

	// AttachEmailLog guarda la referencia del relay tras un envío exitoso.
	AttachEmailLog(ctx context.Context, id, reference string) error

	// GetByPaymentID retorna ErrNotFound si no existe.
	GetByPaymentID(ctx context.Context, paymentID string) (*Receipt, error)
}

package types

import "strings"

// NotificationKind identifica el flujo que originó un email.
type NotificationKind string

const (
	KindPasswordReset  NotificationKind = "password_reset"
	KindPaymentReceipt NotificationKind = "payment_receipt"
	// KindNotification cubre el path genérico send-email sin emailType conocido.
	KindNotification NotificationKind = "notification"
)

// ParseKind normaliza un emailType recibido por HTTP.
// Valores desconocidos o vacíos caen en KindNotification.
func ParseKind(s string) NotificationKind {
	switch NotificationKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPasswordReset:
		return KindPasswordReset
	case KindPaymentReceipt:
		return KindPaymentReceipt
	default:
		return KindNotification
	}
}

// DeliveryStatus es el estado de una fila de email_logs.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// Terminal retorna true para sent/failed.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// NotificationRequest es lo que el orquestador entrega al dispatcher.
// Se construye una vez y no se modifica.
type NotificationRequest struct {
	Kind          NotificationKind
	Recipients    []string
	Subject       string
	HTML          string
	CorrelationID string

	// From y ReplyTo son overrides opcionales del sender configurado.
	From    string
	ReplyTo string

	Metadata map[string]any
}

// PrimaryRecipient retorna el primer destinatario o "".
func (r NotificationRequest) PrimaryRecipient() string {
	if len(r.Recipients) == 0 {
		return ""
	}
	return r.Recipients[0]
}

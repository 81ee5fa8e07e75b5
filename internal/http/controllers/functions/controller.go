// Package functions contiene los controllers de /functions/v1: send-email,
// send-payment-receipt y password-reset.
package functions

import (
	"context"

	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/email"
	"github.com/dropDatabas3/burtonmail/internal/notify"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
)

// Service es lo que los controllers necesitan del orquestador.
type Service interface {
	PasswordReset(ctx context.Context, in notify.PasswordResetInput) (*email.DispatchResult, error)
	PaymentReceipt(ctx context.Context, req receipt.Request) (*notify.PaymentReceiptResult, error)
	Send(ctx context.Context, req types.NotificationRequest) (*email.DispatchResult, error)
}

// Controller agrupa los handlers de las functions.
type Controller struct {
	svc Service
}

// NewController crea el controller.
func NewController(svc Service) *Controller {
	return &Controller{svc: svc}
}

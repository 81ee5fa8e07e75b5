// Package notify encadena los componentes de cada flujo de negocio
// (reset de contraseña, recibo de pago, envío genérico) sobre el Dispatcher.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/email"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
	"github.com/dropDatabas3/burtonmail/internal/token"
)

// Sender es la parte del Dispatcher que usa el orquestador.
type Sender interface {
	Send(ctx context.Context, req types.NotificationRequest) (*email.DispatchResult, error)
}

// Deps son las dependencias del orquestador.
type Deps struct {
	Sender   Sender
	Tokens   *token.Issuer
	Receipts *receipt.Generator
	// ResetURL es la página del frontend que consume el token.
	ResetURL string
}

type Orchestrator struct {
	sender   Sender
	tokens   *token.Issuer
	receipts *receipt.Generator
	resetURL string
	now      func() time.Time
}

// New crea el orquestador.
func New(d Deps) *Orchestrator {
	return &Orchestrator{
		sender:   d.Sender,
		tokens:   d.Tokens,
		receipts: d.Receipts,
		resetURL: d.ResetURL,
		now:      time.Now,
	}
}

// PasswordResetInput es lo que envía el formulario "olvidé mi contraseña".
type PasswordResetInput struct {
	MemberNumber string
	Email        string
	Phone        string
}

// PasswordReset valida al miembro, emite token, arma el link y envía el email.
func (o *Orchestrator) PasswordReset(ctx context.Context, in PasswordResetInput) (*email.DispatchResult, error) {
	const op = "Orchestrator.PasswordReset"
	memberNumber := token.NormalizeMemberNumber(in.MemberNumber)
	addr := strings.TrimSpace(in.Email)
	if memberNumber == "" || addr == "" {
		return nil, notifyerr.Validation(op, "Member number and email are required")
	}

	tok, err := o.tokens.IssueResetToken(ctx, memberNumber, addr, in.Phone)
	if err != nil {
		return nil, err
	}

	link, err := token.BuildResetLink(o.resetURL, tok)
	if err != nil {
		return nil, notifyerr.Internal(op, "Failed to build reset link", err)
	}
	html, err := email.RenderPasswordReset(email.ResetVars{Link: link})
	if err != nil {
		return nil, notifyerr.Internal(op, "Failed to render email", err)
	}

	return o.sender.Send(ctx, types.NotificationRequest{
		Kind:          types.KindPasswordReset,
		Recipients:    []string{addr},
		Subject:       email.ResetSubject,
		HTML:          html,
		CorrelationID: memberNumber,
	})
}

// PaymentReceiptResult agrupa el recibo persistido y el resultado del envío.
type PaymentReceiptResult struct {
	Receipt  *repository.Receipt
	Dispatch *email.DispatchResult
}

// PaymentReceipt persiste el recibo, lo envía y adjunta el message id.
// Si el envío falla el recibo queda persistido y el error se propaga.
func (o *Orchestrator) PaymentReceipt(ctx context.Context, req receipt.Request) (*PaymentReceiptResult, error) {
	const op = "Orchestrator.PaymentReceipt"

	rc, err := o.receipts.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	html, err := receipt.Render(rc, o.now())
	if err != nil {
		return nil, notifyerr.Internal(op, "Failed to render receipt", err)
	}

	res, err := o.sender.Send(ctx, types.NotificationRequest{
		Kind:          types.KindPaymentReceipt,
		Recipients:    []string{rc.RecipientEmail},
		Subject:       receipt.Subject(rc),
		HTML:          html,
		CorrelationID: rc.PaymentID,
		Metadata: map[string]any{
			"receipt_number": rc.ReceiptNumber,
			"member_number":  rc.MemberNumber,
		},
	})
	if err != nil {
		logger.From(ctx).Warn("receipt persisted but email not sent",
			logger.Op(op),
			logger.ReceiptNumber(rc.ReceiptNumber),
			logger.Err(err),
		)
		return nil, err
	}

	o.receipts.AttachEmailLog(ctx, rc, res.ProviderMessageID)
	return &PaymentReceiptResult{Receipt: rc, Dispatch: res}, nil
}

// Send es el camino genérico de send-email.
func (o *Orchestrator) Send(ctx context.Context, req types.NotificationRequest) (*email.DispatchResult, error) {
	var to []string
	for _, r := range req.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	req.Recipients = to
	if len(req.Recipients) == 0 || strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.HTML) == "" {
		return nil, notifyerr.Validation("Orchestrator.Send", "Missing required email fields: to, subject, html")
	}
	if req.Kind == "" {
		req.Kind = types.KindNotification
	}
	return o.sender.Send(ctx, req)
}

package receipt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/metrics"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// maxNumberAttempts acota los reintentos ante colisión de receipt_number.
const maxNumberAttempts = 5

// Request son los datos del pago a documentar.
type Request struct {
	PaymentID     string
	MemberNumber  string
	MemberName    string
	AmountPence   int64
	PaymentType   string
	PaymentMethod string
	CollectorName string
}

func (r Request) validate() error {
	var missing []string
	if strings.TrimSpace(r.PaymentID) == "" {
		missing = append(missing, "paymentId")
	}
	if strings.TrimSpace(r.MemberNumber) == "" {
		missing = append(missing, "memberNumber")
	}
	if len(missing) > 0 {
		return notifyerr.Validation("Generator.Generate", "Missing required fields: "+strings.Join(missing, ", "))
	}
	if r.AmountPence <= 0 {
		return notifyerr.Validation("Generator.Generate", "Amount must be positive")
	}
	return nil
}

// Generator crea recibos.
type Generator struct {
	receipts repository.ReceiptRepository
	members  repository.MemberRepository
	clock    *numberClock
	now      func() time.Time
}

// NewGenerator crea el generador.
func NewGenerator(receipts repository.ReceiptRepository, members repository.MemberRepository) *Generator {
	return &Generator{
		receipts: receipts,
		members:  members,
		clock:    newNumberClock(time.Now),
		now:      time.Now,
	}
}

// Generate resuelve el email del miembro, asigna receipt number y persiste.
func (g *Generator) Generate(ctx context.Context, req Request) (*repository.Receipt, error) {
	const op = "Generator.Generate"
	if err := req.validate(); err != nil {
		return nil, err
	}
	log := logger.From(ctx).With(
		logger.Op(op),
		logger.PaymentID(req.PaymentID),
		logger.MemberNumber(req.MemberNumber),
	)

	member, err := g.members.GetByNumber(ctx, req.MemberNumber)
	switch {
	case repository.IsNotFound(err):
		return nil, notifyerr.NotFound(op, "No email found for member")
	case err != nil:
		log.Error("member lookup failed", logger.Err(err))
		return nil, notifyerr.Persistence(op, "Failed to look up member", err)
	}
	email := strings.TrimSpace(member.Email)
	if email == "" {
		return nil, notifyerr.NotFound(op, "No email found for member")
	}

	rc := &repository.Receipt{
		PaymentID:      req.PaymentID,
		RecipientEmail: email,
		AmountPence:    req.AmountPence,
		PaymentType:    req.PaymentType,
		PaymentMethod:  req.PaymentMethod,
		CollectorName:  req.CollectorName,
		MemberNumber:   req.MemberNumber,
		MemberName:     req.MemberName,
	}

	for attempt := 1; ; attempt++ {
		rc.ReceiptNumber = g.clock.Next()
		rc.CreatedAt = g.now().UTC()
		err = g.receipts.Create(ctx, rc)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateReceiptNumber) && attempt < maxNumberAttempts {
			log.Warn("receipt number collision, retrying",
				logger.ReceiptNumber(rc.ReceiptNumber),
				logger.Int("attempt", attempt),
			)
			continue
		}
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return nil, notifyerr.Conflict(op, "Receipt already exists for this payment", err)
		}
		log.Error("create receipt failed", logger.Err(err))
		return nil, notifyerr.Persistence(op, "Failed to create receipt record", err)
	}

	metrics.ReceiptsCreated.Inc()
	log.Info("receipt created", logger.ReceiptNumber(rc.ReceiptNumber))
	return rc, nil
}

// AttachEmailLog guarda la referencia del envío en el recibo. Best-effort:
// el email ya salió, un fallo acá solo se loguea y se cuenta.
func (g *Generator) AttachEmailLog(ctx context.Context, rc *repository.Receipt, reference string) {
	if reference == "" {
		return
	}
	if err := g.receipts.AttachEmailLog(ctx, rc.ID, reference); err != nil {
		metrics.SecondaryFailures.WithLabelValues("receipt_attach_email_log").Inc()
		logger.From(ctx).Error("attach email log to receipt failed",
			logger.Op("Generator.AttachEmailLog"),
			logger.ReceiptNumber(rc.ReceiptNumber),
			logger.Err(err),
		)
		return
	}
	rc.EmailLogReference = reference
}

// Lookup retorna el recibo de un pago.
func (g *Generator) Lookup(ctx context.Context, paymentID string) (*repository.Receipt, error) {
	rc, err := g.receipts.GetByPaymentID(ctx, paymentID)
	switch {
	case repository.IsNotFound(err):
		return nil, notifyerr.NotFound("Generator.Lookup", "Receipt not found")
	case err != nil:
		return nil, notifyerr.Persistence("Generator.Lookup", "Failed to read receipt", err)
	}
	return rc, nil
}

package functions

import (
	"net/http"

	dto "github.com/dropDatabas3/burtonmail/internal/http/dto/functions"
	"github.com/dropDatabas3/burtonmail/internal/http/errors"
	"github.com/dropDatabas3/burtonmail/internal/http/helpers"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
)

// PaymentReceipt maneja POST /functions/v1/send-payment-receipt.
// Responde con el JSON del relay; el número de recibo va en X-Receipt-Number.
func (c *Controller) PaymentReceipt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("Functions.PaymentReceipt"))

	var req dto.PaymentReceiptRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	pence, err := receipt.ParseAmount(req.Amount.String())
	if err != nil {
		errors.WriteError(w, errors.ErrBadRequest.WithMessage("Invalid amount").WithCause(err))
		return
	}

	res, err := c.svc.PaymentReceipt(ctx, receipt.Request{
		PaymentID:     req.PaymentID,
		MemberNumber:  req.MemberNumber,
		MemberName:    req.MemberName,
		AmountPence:   pence,
		PaymentType:   req.PaymentType,
		PaymentMethod: req.PaymentMethod,
		CollectorName: req.CollectorName,
	})
	if err != nil {
		log.Warn("payment receipt failed", logger.PaymentID(req.PaymentID), logger.Err(err))
		errors.WriteError(w, err)
		return
	}

	w.Header().Set("X-Receipt-Number", res.Receipt.ReceiptNumber)
	helpers.WriteRawJSON(w, http.StatusOK, res.Dispatch.Raw)
}

package functions

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	dto "github.com/dropDatabas3/burtonmail/internal/http/dto/functions"
	"github.com/dropDatabas3/burtonmail/internal/http/errors"
	"github.com/dropDatabas3/burtonmail/internal/http/helpers"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// SendEmail maneja POST /functions/v1/send-email.
func (c *Controller) SendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("Functions.SendEmail"))

	var req dto.SendEmailRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	res, err := c.svc.Send(ctx, types.NotificationRequest{
		Kind:          types.ParseKind(req.EmailType),
		Recipients:    req.To,
		Subject:       req.Subject,
		HTML:          req.HTML,
		CorrelationID: strings.TrimSpace(req.MemberNumber),
		From:          req.From,
		ReplyTo:       req.ReplyTo,
	})
	if err != nil {
		log.Warn("send email failed", logger.Err(err))
		errors.WriteError(w, err)
		return
	}

	helpers.WriteRawJSON(w, http.StatusOK, res.Raw)
}

package functions

import (
	"net/http"

	dto "github.com/dropDatabas3/burtonmail/internal/http/dto/functions"
	"github.com/dropDatabas3/burtonmail/internal/http/errors"
	"github.com/dropDatabas3/burtonmail/internal/http/helpers"
	"github.com/dropDatabas3/burtonmail/internal/notify"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// PasswordReset maneja POST /functions/v1/password-reset.
func (c *Controller) PasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Op("Functions.PasswordReset"))

	var req dto.PasswordResetRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	_, err := c.svc.PasswordReset(ctx, notify.PasswordResetInput{
		MemberNumber: req.MemberNumber,
		Email:        req.Email,
		Phone:        req.Phone,
	})
	if err != nil {
		log.Warn("password reset failed", logger.MemberNumber(req.MemberNumber), logger.Err(err))
		errors.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.PasswordResetResponse{
		Success: true,
		Message: "Please check your email for password reset instructions",
	})
}

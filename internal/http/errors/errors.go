// Package errors traduce errores de dominio al contrato HTTP {error, code, timestamp}.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
)

// errorResponse es lo que ve el cliente.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

var now = time.Now

// FromError convierte cualquier error en *AppError. Errores de notifyerr se
// mapean por Kind conservando su mensaje; el resto es 500.
func FromError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if ne, ok := notifyerr.As(err); ok {
		return FromNotify(ne)
	}
	return ErrInternalServerError.WithCause(err)
}

// FromNotify mapea un error de dominio.
func FromNotify(ne *notifyerr.Error) *AppError {
	var base *AppError
	switch ne.Kind {
	case notifyerr.KindValidation:
		base = ErrBadRequest
	case notifyerr.KindNotFound:
		base = ErrNotFound
	case notifyerr.KindConflict:
		base = ErrConflict
	case notifyerr.KindPersistence:
		base = ErrPersistence
	case notifyerr.KindDelivery:
		base = ErrDelivery
	default:
		base = ErrInternalServerError
	}
	out := base.WithCause(ne)
	if ne.Message != "" {
		out.Message = ne.Message
	}
	return out
}

// WriteError escribe la respuesta de error.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Error:     appErr.Message,
		Code:      appErr.Code,
		Timestamp: now().UTC().Format(time.RFC3339Nano),
	})
}

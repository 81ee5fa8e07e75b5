// Package notifyerr define la taxonomía de errores del subsistema de notificaciones.
//
// Cada operación retorna un *Error con un Kind explícito; la capa HTTP lo
// traduce una sola vez al contrato {error, timestamp}. Message es el texto que
// ve el usuario; Err conserva la causa para logs.
package notifyerr

import (
	"errors"
	"fmt"
)

// Kind clasifica un error.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindPersistence Kind = "persistence"
	KindDelivery    Kind = "delivery"
	KindInternal    Kind = "internal"
)

// Error es el error tipado que cruzan ledger, receipt, token, email y notify.
type Error struct {
	Kind    Kind
	Op      string
	Message string

	// UpstreamStatus/UpstreamBody solo para KindDelivery: respuesta del relay.
	UpstreamStatus int
	UpstreamBody   string

	Err error
}

func (e *Error) Error() string {
	var s string
	if e.Op != "" {
		s = e.Op + ": "
	}
	s += e.Message
	if e.Err != nil {
		s = fmt.Sprintf("%s: %v", s, e.Err)
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Validation: input inválido o email que no coincide. Nunca se reintenta.
func Validation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

// NotFound: miembro o pago desconocido.
func NotFound(op, msg string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: msg}
}

// Conflict: violación de unicidad (ej. segundo recibo para el mismo pago).
func Conflict(op, msg string, err error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: msg, Err: err}
}

// Persistence: falló una escritura/lectura del store.
func Persistence(op, msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, Message: msg, Err: err}
}

// Delivery: el relay rechazó el mensaje o no respondió a tiempo.
// body es la respuesta cruda del relay (o el texto del error de transporte).
func Delivery(op string, status int, body string, err error) *Error {
	return &Error{
		Kind:           KindDelivery,
		Op:             op,
		Message:        "Failed to send email: " + body,
		UpstreamStatus: status,
		UpstreamBody:   body,
		Err:            err,
	}
}

// Internal: configuración o invariantes rotas.
func Internal(op, msg string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: msg, Err: err}
}

// As extrae el *Error de una cadena de errores.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf retorna el Kind del error; errores no tipados son KindInternal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reporta si err (o su cadena) es un *Error del kind dado.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// UserMessage es el texto a mostrar al caller.
func UserMessage(err error) string {
	if e, ok := As(err); ok && e.Message != "" {
		return e.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

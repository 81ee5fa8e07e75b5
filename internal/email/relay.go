package email

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message es lo que se entrega al relay, ya con destinatarios resueltos.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	ReplyTo string
}

// RelayResult es la respuesta exitosa del relay.
type RelayResult struct {
	// MessageID es el id asignado por el proveedor ("" si no se pudo leer).
	MessageID string
	// Body es el JSON crudo que se devuelve al caller HTTP.
	Body json.RawMessage
}

// Relay es un servicio externo de entrega (Resend, SMTP).
type Relay interface {
	Name() string
	Send(ctx context.Context, msg Message) (*RelayResult, error)
}

// RelayError es un rechazo del relay. Body se guarda textual en el ledger.
type RelayError struct {
	StatusCode int
	Body       string
	// Code es el diagnóstico (ver DiagnoseSMTP); vacío para HTTP.
	Code      string
	Temporary bool
}

func (e *RelayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("relay rejected message (status %d): %s", e.StatusCode, e.Body)
	}
	return "relay rejected message: " + e.Body
}

package email

import "time"

const (
	DefaultFrom          = "PWA Burton <no-reply@pwaburton.org>"
	DefaultTestRecipient = "burtonpwa@gmail.com"
	DefaultTimeout       = 15 * time.Second
)

// DispatchConfig se inyecta al construir Gate y Dispatcher; nada se lee del
// entorno en tiempo de envío.
type DispatchConfig struct {
	// TestMode redirige todos los envíos a TestRecipient.
	TestMode      bool
	TestRecipient string

	From    string // sender por defecto
	ReplyTo string // opcional

	// Timeout acota la llamada al relay. Vencido = DeliveryError.
	Timeout time.Duration
}

func (c DispatchConfig) withDefaults() DispatchConfig {
	if c.TestRecipient == "" {
		c.TestRecipient = DefaultTestRecipient
	}
	if c.From == "" {
		c.From = DefaultFrom
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

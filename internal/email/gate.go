package email

// Gate decide a quién se entrega realmente un email.
//
// En test mode ignora los destinatarios pedidos y usa una única dirección
// verificada; en producción devuelve la lista tal cual. Es función pura del
// flag de configuración.
type Gate struct {
	testMode      bool
	testRecipient string
}

// NewGate construye el gate desde la configuración de dispatch.
func NewGate(cfg DispatchConfig) Gate {
	cfg = cfg.withDefaults()
	return Gate{testMode: cfg.TestMode, testRecipient: cfg.TestRecipient}
}

// TestMode reporta si el gate está redirigiendo.
func (g Gate) TestMode() bool { return g.testMode }

// Resolve retorna los destinatarios efectivos. Nunca modifica requested.
func (g Gate) Resolve(requested []string) []string {
	if g.testMode {
		return []string{g.testRecipient}
	}
	out := make([]string, len(requested))
	copy(out, requested)
	return out
}

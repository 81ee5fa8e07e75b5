package email

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"

	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// SMTPConfig contiene la configuración para el relay SMTP.
type SMTPConfig struct {
	Host               string
	Port               int    // default 587
	Username           string
	Password           string
	TLSMode            string // "auto" | "starttls" | "ssl" | "none"
	InsecureSkipVerify bool   // solo dev
	// MessageIDDomain es el dominio del Message-ID que generamos (default: Host).
	MessageIDDomain string
}

// SMTPRelay implementa Relay sobre SMTP con go-mail. El "provider message id"
// es el Message-ID que asignamos nosotros.
type SMTPRelay struct {
	cfg SMTPConfig
}

// NewSMTPRelay crea el relay aplicando defaults.
func NewSMTPRelay(cfg SMTPConfig) *SMTPRelay {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.TLSMode == "" {
		cfg.TLSMode = "auto"
	}
	if cfg.MessageIDDomain == "" {
		cfg.MessageIDDomain = cfg.Host
	}
	return &SMTPRelay{cfg: cfg}
}

func (s *SMTPRelay) Name() string { return "smtp" }

func (s *SMTPRelay) dialer(ctx context.Context) *mail.Dialer {
	d := mail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	d.TLSConfig = &tls.Config{
		ServerName:         s.cfg.Host,
		InsecureSkipVerify: s.cfg.InsecureSkipVerify, // solo dev
	}
	switch s.cfg.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{InsecureSkipVerify: s.cfg.InsecureSkipVerify}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}
	if dl, ok := ctx.Deadline(); ok {
		d.Timeout = time.Until(dl)
	}
	return d
}

// Send entrega el mensaje. go-mail no acepta context, así que la llamada
// corre en una goroutine acotada por el Timeout del dialer.
func (s *SMTPRelay) Send(ctx context.Context, msg Message) (*RelayResult, error) {
	log := logger.From(ctx).With(
		logger.Component("SMTPRelay"),
		logger.String("host", s.cfg.Host),
		logger.Int("port", s.cfg.Port),
	)

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.MessageIDDomain)

	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", msgID)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetBody("text/html", msg.HTML)

	d := s.dialer(ctx)
	done := make(chan error, 1)
	go func() { done <- d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("smtp send: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			diag := DiagnoseSMTP(err)
			log.Warn("smtp send failed",
				logger.Err(err),
				logger.String("diag_code", diag.Code),
				logger.Bool("temporary", diag.Temporary),
			)
			return nil, &RelayError{Body: err.Error(), Code: diag.Code, Temporary: diag.Temporary}
		}
	}

	body, _ := json.Marshal(map[string]string{"id": msgID})
	return &RelayResult{MessageID: msgID, Body: body}, nil
}

package email

import (
	"net"
	"strings"
	"time"
)

// SMTPDiag contiene información de diagnóstico de un error SMTP.
type SMTPDiag struct {
	Code       string        // auth|tls|dial|timeout|rate_limited|invalid_recipient|rejected|network|unknown
	Temporary  bool          // si conviene reintentar (decisión del caller, no del dispatcher)
	RetryAfter time.Duration // 0 si no se pudo inferir
}

type diagRule struct {
	code      string
	temporary bool
	match     func(s string) bool
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// El orden importa: la primera regla que matchea gana.
var smtpRules = []diagRule{
	{"timeout", true, func(s string) bool { return containsAny(s, "timeout", "deadline exceeded") }},
	{"dial", true, func(s string) bool {
		return containsAny(s, "connection refused", "connectex:", "no such host", "dial tcp")
	}},
	{"tls", false, func(s string) bool {
		return strings.Contains(s, "x509:") || (strings.Contains(s, "tls") && containsAny(s, "handshake", "certificate"))
	}},
	{"auth", false, func(s string) bool {
		return containsAny(s, "5.7.8", "535", "username and password not accepted", "authentication failed") ||
			(strings.Contains(s, "auth") && strings.Contains(s, "failed"))
	}},
	{"rate_limited", true, func(s string) bool {
		return containsAny(s, "4.7.0", "rate limit", "try again later", "temporarily unavailable", "451", "421")
	}},
	{"invalid_recipient", false, func(s string) bool { return containsAny(s, "5.1.1", "user unknown", "mailbox not found") }},
	{"rejected", false, func(s string) bool {
		return containsAny(s, "5.7.1", "message rejected", "policy", "dmarc", "spf")
	}},
}

// DiagnoseSMTP clasifica un error del relay SMTP para logs y RelayError.Code.
func DiagnoseSMTP(err error) SMTPDiag {
	if err == nil {
		return SMTPDiag{Code: "unknown"}
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return SMTPDiag{Code: "timeout", Temporary: true}
	}
	s := strings.ToLower(err.Error())
	for _, r := range smtpRules {
		if r.match(s) {
			return SMTPDiag{Code: r.code, Temporary: r.temporary}
		}
	}
	if _, ok := err.(net.Error); ok {
		return SMTPDiag{Code: "network", Temporary: true}
	}
	return SMTPDiag{Code: "unknown"}
}

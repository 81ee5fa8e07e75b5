package logger

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/burtonmail/internal/util"
)

// ─── HTTP ───

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Duration crea un campo de duración nativo de zap.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// ─── Notificaciones ───

// CorrelationID es la clave de negocio (member number o payment id).
func CorrelationID(v string) zap.Field { return zap.String("correlation_id", v) }

// EntryID identifica una fila de email_logs.
func EntryID(v string) zap.Field { return zap.String("entry_id", v) }

// Kind es el tipo de notificación (password_reset, payment_receipt, ...).
func Kind(v string) zap.Field { return zap.String("kind", v) }

func MemberNumber(v string) zap.Field  { return zap.String("member_number", v) }
func PaymentID(v string) zap.Field     { return zap.String("payment_id", v) }
func ReceiptNumber(v string) zap.Field { return zap.String("receipt_number", v) }
func MessageID(v string) zap.Field     { return zap.String("provider_message_id", v) }

// Recipients y Email enmascaran las direcciones (ver util.MaskEmail).
func Recipients(v []string) zap.Field { return zap.Strings("recipients", util.MaskEmails(v)) }
func Email(v string) zap.Field        { return zap.String("email", util.MaskEmail(v)) }

// ─── Sistema ───

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

func String(key, v string) zap.Field    { return zap.String(key, v) }
func Int(key string, v int) zap.Field   { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field   { return zap.Any(key, v) }

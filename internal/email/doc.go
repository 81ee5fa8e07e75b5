// Package email envía notificaciones transaccionales a través de un relay
// externo y reconcilia cada intento con el ledger de entregas.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                    notify.Orchestrator                          │
//	└───────────────────────────┬─────────────────────────────────────┘
//	                            │ types.NotificationRequest
//	                            ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                       Dispatcher.Send                           │
//	│  1. ledger.Open (pending)      → sin fila no hay envío          │
//	│  2. Gate.Resolve (test mode)   → destinatarios efectivos        │
//	│  3. Relay.Send (timeout)       → Resend HTTP | SMTP             │
//	│  4. ledger.MarkSent / MarkFailed                                │
//	└─────────────────────────────────────────────────────────────────┘
//
// No hay reintentos automáticos: un reintento es otra llamada a Send y por
// lo tanto otra fila en email_logs.
package email

// Package receipt genera y persiste recibos de pago y renderiza su email.
//
// Un recibo se persiste antes de cualquier envío: si el email falla el recibo
// sigue existiendo y el intento queda en el ledger. payment_id es único, así
// que generar dos veces para el mismo pago es un Conflict.
package receipt

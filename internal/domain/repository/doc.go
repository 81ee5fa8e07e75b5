// Package repository define los contratos de persistencia del subsistema de
// notificaciones: email_logs (ledger), payment_receipts y members.
//
// Las implementaciones viven en internal/store/pg (producción) e
// internal/store/memory (tests y modo dev).
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go; los adapters traducen
//     pgx.ErrNoRows y unique_violation a ErrNotFound / ErrConflict
package repository

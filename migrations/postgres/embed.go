// Package migrations embeds SQL migration files.
package migrations

import "embed"

// NotifyFS contains the notification schema migrations (email_logs, payment_receipts, members).
//
//go:embed notify/*.sql
var NotifyFS embed.FS

// NotifyDir is the directory within NotifyFS where migrations live.
const NotifyDir = "notify"

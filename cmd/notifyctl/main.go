package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/burtonmail/internal/app"
	"github.com/dropDatabas3/burtonmail/internal/config"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
	"github.com/dropDatabas3/burtonmail/internal/store/pg"
	migrations "github.com/dropDatabas3/burtonmail/migrations/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	out        string // text | json
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{
		configPath: envOr("CONFIG_PATH", ""),
		out:        envOr("NOTIFYCTL_OUT", "text"),
		timeout:    30 * time.Second,
	}

	root := &cobra.Command{
		Use:          "notifyctl",
		Short:        "Operaciones sobre el dispatcher de notificaciones",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.out != "text" && opts.out != "json" {
				return fmt.Errorf("--out debe ser text o json")
			}
			logger.Init(logger.Config{Env: "dev", Level: envOr("LOG_LEVEL", "warn")})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "ruta al config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&opts.out, "out", opts.out, "Formato de salida: json|text")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.timeout, "timeout de la operación")

	root.AddCommand(
		newMigrateCmd(opts),
		newLedgerCmd(opts),
		newReceiptCmd(opts),
		newSendTestCmd(opts),
	)
	return root
}

// withContainer carga config, arma el contenedor y lo libera al terminar.
func withContainer(cmd *cobra.Command, opts *options, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	c, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

// migrate sólo necesita la DSN; no exige config de relay ni tokens.
func newMigrateCmd(opts *options) *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL embebidas (email_logs, payment_receipts, members)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = os.Getenv("DATABASE_URL")
			}
			if dsn == "" {
				return errors.New("falta DSN (flag --dsn o env DATABASE_URL)")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			st, err := pg.Open(ctx, dsn, pg.PoolConfig{MaxConns: 2})
			if err != nil {
				return err
			}
			defer st.Close()

			res, err := st.Migrate(ctx, migrations.NotifyFS, migrations.NotifyDir)
			if err != nil {
				return err
			}
			if opts.out == "json" {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied=%v skipped=%v took=%s\n", res.Applied, res.Skipped, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "DSN de Postgres (env DATABASE_URL)")
	return cmd
}

func newLedgerCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ledger <correlation-id>",
		Short: "Lista los intentos de envío de un correlation id (member number)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, opts, func(ctx context.Context, c *app.Container) error {
				entries, err := c.Ledger.History(ctx, strings.TrimSpace(args[0]), limit)
				if err != nil {
					return err
				}
				if opts.out == "json" {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				printEntries(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "máximo de filas")
	return cmd
}

func newReceiptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <payment-id>",
		Short: "Muestra el recibo emitido para un pago",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, opts, func(ctx context.Context, c *app.Container) error {
				rc, err := c.Receipts.Lookup(ctx, strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if opts.out == "json" {
					return printJSON(cmd.OutOrStdout(), rc)
				}
				printReceipt(cmd.OutOrStdout(), rc)
				return nil
			})
		},
	}
}

func newSendTestCmd(opts *options) *cobra.Command {
	var to []string
	var subject string
	cmd := &cobra.Command{
		Use:   "send-test",
		Short: "Envía una notificación de prueba (respeta el modo test)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(to) == 0 {
				return errors.New("--to es obligatorio")
			}
			return withContainer(cmd, opts, func(ctx context.Context, c *app.Container) error {
				res, err := c.Orchestrator.Send(ctx, types.NotificationRequest{
					Kind:          types.KindNotification,
					Recipients:    to,
					Subject:       subject,
					HTML:          "<p>notifyctl test message sent at " + time.Now().UTC().Format(time.RFC3339) + "</p>",
					CorrelationID: "notifyctl",
				})
				if err != nil {
					return err
				}
				if opts.out == "json" {
					return printJSON(cmd.OutOrStdout(), res)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent entry=%s message_id=%s delivered_to=%s\n",
					res.EntryID, res.ProviderMessageID, strings.Join(res.Recipients, ","))
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&to, "to", nil, "destinatario(s), separados por coma")
	cmd.Flags().StringVar(&subject, "subject", "Burton notification test", "asunto")
	return cmd
}

func printEntries(w io.Writer, entries []repository.LedgerEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tRECIPIENT\tCREATED\tMESSAGE_ID\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Kind, e.Status, e.Recipient,
			e.CreatedAt.UTC().Format(time.RFC3339), e.ProviderMessageID, oneLine(e.ErrorMessage, 60))
	}
	_ = tw.Flush()
}

func printReceipt(w io.Writer, rc *repository.Receipt) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "receipt\t%s\n", rc.ReceiptNumber)
	fmt.Fprintf(tw, "payment\t%s\n", rc.PaymentID)
	fmt.Fprintf(tw, "member\t%s (%s)\n", rc.MemberName, rc.MemberNumber)
	fmt.Fprintf(tw, "email\t%s\n", rc.RecipientEmail)
	fmt.Fprintf(tw, "amount\t%s\n", receipt.FormatGBP(rc.AmountPence))
	fmt.Fprintf(tw, "type/method\t%s / %s\n", rc.PaymentType, rc.PaymentMethod)
	fmt.Fprintf(tw, "collector\t%s\n", rc.CollectorName)
	fmt.Fprintf(tw, "email log\t%s\n", rc.EmailLogReference)
	fmt.Fprintf(tw, "created\t%s\n", rc.CreatedAt.UTC().Format(time.RFC3339))
	_ = tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > max {
		return string(r[:max]) + "..."
	}
	return s
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

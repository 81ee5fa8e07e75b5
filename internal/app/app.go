// Package app arma el grafo de dependencias del servicio a partir de la
// config: storage, relay, minter de tokens, limiter y orquestador. Lo usan
// cmd/service y cmd/notifyctl.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/burtonmail/internal/config"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/email"
	fnctrl "github.com/dropDatabas3/burtonmail/internal/http/controllers/functions"
	healthctrl "github.com/dropDatabas3/burtonmail/internal/http/controllers/health"
	mw "github.com/dropDatabas3/burtonmail/internal/http/middlewares"
	"github.com/dropDatabas3/burtonmail/internal/http/router"
	"github.com/dropDatabas3/burtonmail/internal/ledger"
	"github.com/dropDatabas3/burtonmail/internal/notify"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
	"github.com/dropDatabas3/burtonmail/internal/rate"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
	"github.com/dropDatabas3/burtonmail/internal/store/memory"
	"github.com/dropDatabas3/burtonmail/internal/store/pg"
	"github.com/dropDatabas3/burtonmail/internal/token"
)

// Storage es lo común a pg.Store y memory.Store.
type Storage interface {
	Ledger() repository.LedgerRepository
	Receipts() repository.ReceiptRepository
	Members() repository.MemberRepository
}

type Container struct {
	Config *config.Config

	Store Storage
	// PG es nil con storage.driver=memory.
	PG    *pg.Store
	Redis *rdb.Client

	Ledger       *ledger.Ledger
	Relay        email.Relay
	Dispatcher   *email.Dispatcher
	Receipts     *receipt.Generator
	Orchestrator *notify.Orchestrator
	// ResetLimiter es nil si rate.enabled=false.
	ResetLimiter   rate.Limiter
	TrustedProxies mw.TrustedProxies
}

// Build construye el contenedor. En caso de error libera lo ya abierto.
func Build(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	log := logger.L().With(logger.Component("app"))
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.TrustedProxies, err = mw.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("app: server.trusted_proxies: %w", err)
	}

	switch cfg.Storage.Driver {
	case "postgres":
		c.PG, err = pg.Open(ctx, cfg.Storage.DSN, pg.PoolConfig{
			MaxConns:        int32(cfg.Storage.Postgres.MaxConns),
			MinConns:        int32(cfg.Storage.Postgres.MinConns),
			ConnMaxLifetime: config.Duration(cfg.Storage.Postgres.ConnMaxLifetime, 0),
		})
		if err != nil {
			return nil, err
		}
		c.Store = c.PG
	case "memory":
		log.Warn("using in-memory storage; data is lost on restart")
		c.Store = memory.New()
	default:
		return nil, fmt.Errorf("app: unsupported storage driver %q", cfg.Storage.Driver)
	}

	c.Relay, err = buildRelay(cfg)
	if err != nil {
		return nil, err
	}

	minter, err := c.buildMinter()
	if err != nil {
		return nil, err
	}

	if cfg.RateEnabled() {
		c.ResetLimiter = c.buildLimiter()
	}

	c.Ledger = ledger.New(c.Store.Ledger())
	c.Dispatcher = email.NewDispatcher(email.DispatchConfig{
		TestMode:      cfg.TestModeEnabled(),
		TestRecipient: cfg.Dispatch.TestRecipient,
		From:          cfg.Dispatch.From,
		ReplyTo:       cfg.Dispatch.ReplyTo,
		Timeout:       config.Duration(cfg.Dispatch.Timeout, email.DefaultTimeout),
	}, c.Relay, c.Ledger)
	c.Receipts = receipt.NewGenerator(c.Store.Receipts(), c.Store.Members())
	c.Orchestrator = notify.New(notify.Deps{
		Sender:   c.Dispatcher,
		Tokens:   token.NewIssuer(c.Store.Members(), minter),
		Receipts: c.Receipts,
		ResetURL: cfg.Email.ResetURL,
	})

	log.Info("dependencies ready",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("relay", c.Relay.Name()),
		logger.String("token_mode", cfg.Token.Mode),
		logger.Bool("test_mode", cfg.TestModeEnabled()),
	)
	return c, nil
}

func buildRelay(cfg *config.Config) (email.Relay, error) {
	switch cfg.Dispatch.Relay {
	case "resend":
		return email.NewResendRelay(cfg.Resend.APIKey, cfg.Resend.Endpoint, nil), nil
	case "smtp":
		return email.NewSMTPRelay(email.SMTPConfig{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			Username:           cfg.SMTP.Username,
			Password:           cfg.SMTP.Password,
			TLSMode:            cfg.SMTP.TLS,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
			MessageIDDomain:    cfg.SMTP.MessageIDDomain,
		}), nil
	}
	return nil, fmt.Errorf("app: unsupported relay %q", cfg.Dispatch.Relay)
}

func (c *Container) buildMinter() (token.Minter, error) {
	switch c.Config.Token.Mode {
	case "jwt":
		return token.NewJWTMinter(c.Config.Token.Secret, c.Config.Token.Issuer,
			config.Duration(c.Config.Token.TTL, token.DefaultResetTTL))
	case "database":
		if c.PG == nil {
			return nil, errors.New("app: token mode database requires postgres storage")
		}
		return c.PG.TokenMinter(), nil
	}
	return nil, fmt.Errorf("app: unsupported token mode %q", c.Config.Token.Mode)
}

func (c *Container) buildLimiter() rate.Limiter {
	cfg := c.Config
	window := config.Duration(cfg.Rate.Reset.Window, 15*time.Minute)
	if cfg.Rate.Backend == "redis" {
		c.Redis = rdb.NewClient(&rdb.Options{Addr: cfg.Rate.RedisAddr, DB: cfg.Rate.RedisDB})
		return rate.NewRedisLimiter(c.Redis, cfg.Rate.RedisPrefix, cfg.Rate.Reset.Limit, window)
	}
	return rate.NewMemoryLimiter(cfg.Rate.Reset.Limit, window)
}

// Handler arma el router HTTP. withMetrics=false cuando /metrics se sirve
// en un listener aparte.
func (c *Container) Handler(withMetrics bool) http.Handler {
	components := map[string]healthctrl.Pinger{}
	if c.PG != nil {
		components["postgres"] = c.PG
	}
	if rl, ok := c.ResetLimiter.(*rate.RedisLimiter); ok {
		components["redis"] = rl
	}

	d := router.Deps{
		Functions: fnctrl.NewController(c.Orchestrator),
		Health: healthctrl.NewHealthController(healthctrl.Deps{
			Version:    c.Config.App.Version,
			Relay:      c.Relay.Name(),
			TestMode:   c.Config.TestModeEnabled(),
			Components: components,
		}),
		ResetLimiter:   c.ResetLimiter,
		APIKeyHash:     c.Config.Server.APIKeyHash,
		CORSOrigins:    c.Config.Server.CORSAllowedOrigins,
		TrustedProxies: c.TrustedProxies,
	}
	if withMetrics {
		d.Metrics = promhttp.Handler()
	}
	return router.New(d)
}

// Close libera pool y cliente redis (idempotente).
func (c *Container) Close() error {
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
		c.Redis = nil
	}
	if c.PG != nil {
		c.PG.Close()
		c.PG = nil
	}
	return errors.Join(errs...)
}

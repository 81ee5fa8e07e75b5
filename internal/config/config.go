package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Bloque app (opcional en YAML). Si no está, queda vacío.
	App struct {
		// dev | staging | prod
		Env     string `yaml:"app_env"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"` // debug | info | warn | error
	} `yaml:"log"`

	Server struct {
		Addr               string   `yaml:"addr"`
		MetricsAddr        string   `yaml:"metrics_addr"` // vacío = /metrics en el server principal
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
		// APIKeyHash: bcrypt de la API key de /functions/v1 (vacío = abierto).
		APIKeyHash string `yaml:"api_key_hash"`
		// TrustedProxies: CIDRs/IPs de reverse proxies cuyo X-Forwarded-For se
		// respeta. Vacío = la IP del cliente es siempre RemoteAddr.
		TrustedProxies  []string `yaml:"trusted_proxies"`
		ReadTimeout     string   `yaml:"read_timeout"`
		WriteTimeout    string   `yaml:"write_timeout"`
		ShutdownTimeout string   `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"` // postgres | memory
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Dispatch struct {
		// TestMode es un puntero para distinguir "ausente" (default true) de false.
		TestMode      *bool  `yaml:"test_mode"`
		TestRecipient string `yaml:"test_recipient"`
		From          string `yaml:"from"`
		ReplyTo       string `yaml:"reply_to"`
		Timeout       string `yaml:"timeout"`
		Relay         string `yaml:"relay"` // resend | smtp
	} `yaml:"dispatch"`

	Resend struct {
		APIKey   string `yaml:"api_key"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"resend"`

	SMTP struct {
		Host               string `yaml:"host"`
		Port               int    `yaml:"port"`
		Username           string `yaml:"username"`
		Password           string `yaml:"password"`
		TLS                string `yaml:"tls"`                  // auto | starttls | ssl | none
		InsecureSkipVerify bool   `yaml:"insecure_skip_verify"` // sólo dev
		MessageIDDomain    string `yaml:"message_id_domain"`
	} `yaml:"smtp"`

	Email struct {
		ResetURL string `yaml:"reset_url"`
	} `yaml:"email"`

	Token struct {
		Mode   string `yaml:"mode"` // jwt | database
		Secret string `yaml:"secret"`
		Issuer string `yaml:"issuer"`
		TTL    string `yaml:"ttl"`
	} `yaml:"token"`

	Rate struct {
		Enabled     *bool  `yaml:"enabled"`
		Backend     string `yaml:"backend"` // redis | memory
		RedisAddr   string `yaml:"redis_addr"`
		RedisDB     int    `yaml:"redis_db"`
		RedisPrefix string `yaml:"redis_prefix"`
		// Reset: límite de /password-reset por IP + member number.
		Reset struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"reset"`
	} `yaml:"rate"`
}

// Load lee el YAML en path. Si path está vacío se arranca sólo con defaults
// y variables de entorno.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()

	// Overrides por env
	c.applyEnvOverrides()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Dispatch.TestMode == nil {
		on := true
		c.Dispatch.TestMode = &on
	}
	if c.Dispatch.Timeout == "" {
		c.Dispatch.Timeout = "15s"
	}
	if c.Dispatch.Relay == "" {
		c.Dispatch.Relay = "resend"
	}
	if c.SMTP.TLS == "" {
		c.SMTP.TLS = "auto"
	}
	if c.Email.ResetURL == "" {
		c.Email.ResetURL = "http://localhost:5173/reset-password"
	}
	if c.Token.Mode == "" {
		c.Token.Mode = "jwt"
	}
	if c.Token.TTL == "" {
		c.Token.TTL = "1h"
	}
	if c.Rate.Enabled == nil {
		on := true
		c.Rate.Enabled = &on
	}
	if c.Rate.Backend == "" {
		c.Rate.Backend = "memory"
	}
	if c.Rate.RedisPrefix == "" {
		c.Rate.RedisPrefix = "burtonmail:rl:"
	}
	if c.Rate.Reset.Limit == 0 {
		c.Rate.Reset.Limit = 3
	}
	if c.Rate.Reset.Window == "" {
		c.Rate.Reset.Window = "15m"
	}
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
// Los secretos (RESEND_API_KEY, TOKEN_SECRET, DATABASE_URL) normalmente
// llegan sólo por acá.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("METRICS_ADDR"); ok {
		c.Server.MetricsAddr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvCSV("TRUSTED_PROXIES"); ok {
		c.Server.TrustedProxies = v
	}
	if v, ok := getEnvStr("API_KEY_HASH"); ok {
		c.Server.APIKeyHash = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("DATABASE_URL"); ok {
		c.Storage.DSN = v
	} else if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_CONNS"); ok {
		c.Storage.Postgres.MaxConns = v
	}

	// DISPATCH
	if v, ok := getEnvBool("DISPATCH_TEST_MODE"); ok {
		c.Dispatch.TestMode = &v
	}
	if v, ok := getEnvStr("DISPATCH_TEST_RECIPIENT"); ok {
		c.Dispatch.TestRecipient = v
	}
	if v, ok := getEnvStr("DISPATCH_FROM"); ok {
		c.Dispatch.From = v
	}
	if v, ok := getEnvStr("DISPATCH_RELAY"); ok {
		c.Dispatch.Relay = strings.ToLower(v)
	}
	if v, ok := getEnvStr("RESEND_API_KEY"); ok {
		c.Resend.APIKey = v
	}

	// SMTP
	if v, ok := getEnvStr("SMTP_HOST"); ok {
		c.SMTP.Host = v
	}
	if v, ok := getEnvInt("SMTP_PORT"); ok {
		c.SMTP.Port = v
	}
	if v, ok := getEnvStr("SMTP_USERNAME"); ok {
		c.SMTP.Username = v
	}
	if v, ok := getEnvStr("SMTP_PASSWORD"); ok {
		c.SMTP.Password = v
	}

	// EMAIL / TOKEN
	if v, ok := getEnvStr("RESET_URL"); ok {
		c.Email.ResetURL = v
	}
	if v, ok := getEnvStr("TOKEN_MODE"); ok {
		c.Token.Mode = strings.ToLower(v)
	}
	if v, ok := getEnvStr("TOKEN_SECRET"); ok {
		c.Token.Secret = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = &v
	}
	if v, ok := getEnvStr("RATE_BACKEND"); ok {
		c.Rate.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Rate.RedisAddr = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Rate.RedisDB = v
	}
}

// Validate chequea valores críticos. Los errores se acumulan para que un
// arranque fallido muestre todo lo que falta de una vez.
func (c *Config) Validate() error {
	var errs []error
	dur := func(name, v string) {
		if v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("config: %s: invalid duration %q", name, v))
		}
	}
	dur("server.read_timeout", c.Server.ReadTimeout)
	dur("server.write_timeout", c.Server.WriteTimeout)
	dur("server.shutdown_timeout", c.Server.ShutdownTimeout)
	dur("storage.postgres.conn_max_lifetime", c.Storage.Postgres.ConnMaxLifetime)
	dur("dispatch.timeout", c.Dispatch.Timeout)
	dur("token.ttl", c.Token.TTL)
	dur("rate.reset.window", c.Rate.Reset.Window)

	switch c.Storage.Driver {
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("config: storage.dsn (or DATABASE_URL) is required for postgres"))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("config: storage.driver %q not supported (postgres|memory)", c.Storage.Driver))
	}

	switch c.Dispatch.Relay {
	case "resend":
		if strings.TrimSpace(c.Resend.APIKey) == "" {
			errs = append(errs, errors.New("config: resend.api_key (or RESEND_API_KEY) is required"))
		}
	case "smtp":
		if strings.TrimSpace(c.SMTP.Host) == "" {
			errs = append(errs, errors.New("config: smtp.host is required for smtp relay"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: dispatch.relay %q not supported (resend|smtp)", c.Dispatch.Relay))
	}

	switch c.Token.Mode {
	case "jwt":
		if len(c.Token.Secret) < 32 {
			errs = append(errs, errors.New("config: token.secret (or TOKEN_SECRET) must be at least 32 bytes"))
		}
	case "database":
		if c.Storage.Driver != "postgres" {
			errs = append(errs, errors.New("config: token.mode database requires storage.driver postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: token.mode %q not supported (jwt|database)", c.Token.Mode))
	}

	switch c.Rate.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Rate.RedisAddr) == "" {
			errs = append(errs, errors.New("config: rate.redis_addr (or REDIS_ADDR) is required for redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: rate.backend %q not supported (redis|memory)", c.Rate.Backend))
	}
	if c.Rate.Reset.Limit < 0 {
		errs = append(errs, errors.New("config: rate.reset.limit must be >= 0"))
	}

	return errors.Join(errs...)
}

// TestModeEnabled devuelve el valor efectivo del modo test.
func (c *Config) TestModeEnabled() bool {
	return c.Dispatch.TestMode == nil || *c.Dispatch.TestMode
}

// RateEnabled devuelve si el rate limit de reset está activo.
func (c *Config) RateEnabled() bool {
	return c.Rate.Enabled == nil || *c.Rate.Enabled
}

// Duration parsea una duración ya validada; vacío o inválido devuelve def.
func Duration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil && d > 0 {
		return d
	}
	return def
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

// clearEnv aísla el test de variables del entorno del runner.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "LOG_LEVEL", "SERVER_ADDR", "DATABASE_URL", "STORAGE_DSN",
		"STORAGE_DRIVER", "DISPATCH_TEST_MODE", "DISPATCH_RELAY", "RESEND_API_KEY",
		"TOKEN_SECRET", "TOKEN_MODE", "RATE_BACKEND", "REDIS_ADDR",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
storage:
  driver: memory
resend:
  api_key: re_123
token:
  secret: `+secret+`
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, []string{"*"}, c.Server.CORSAllowedOrigins)
	assert.True(t, c.TestModeEnabled(), "test mode must default to on")
	assert.Equal(t, "resend", c.Dispatch.Relay)
	assert.Equal(t, "http://localhost:5173/reset-password", c.Email.ResetURL)
	assert.Equal(t, "jwt", c.Token.Mode)
	assert.Equal(t, 3, c.Rate.Reset.Limit)
	assert.Equal(t, 15*time.Minute, Duration(c.Rate.Reset.Window, 0))
	assert.True(t, c.RateEnabled())
}

func TestLoad_ExplicitFalseTestMode(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
storage: {driver: memory}
dispatch: {test_mode: false}
resend: {api_key: re_123}
token: {secret: `+secret+`}
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.False(t, c.TestModeEnabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RESEND_API_KEY", "re_env")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("DISPATCH_TEST_MODE", "false")
	t.Setenv("TOKEN_SECRET", secret)
	t.Setenv("APP_ENV", "PROD")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("RATE_BACKEND", "redis")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "re_env", c.Resend.APIKey)
	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://u:p@localhost/db", c.Storage.DSN)
	assert.False(t, c.TestModeEnabled())
	assert.Equal(t, "prod", c.App.Env)
	assert.Equal(t, "redis", c.Rate.Backend)
	assert.Equal(t, "localhost:6379", c.Rate.RedisAddr)
}

func TestLoad_ValidationCollectsErrors(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
storage: {driver: sqlite}
dispatch: {relay: pigeon, timeout: soon}
token: {mode: jwt, secret: short}
`)
	_, err := Load(p)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "storage.driver")
	assert.Contains(t, msg, "dispatch.relay")
	assert.Contains(t, msg, "dispatch.timeout")
	assert.Contains(t, msg, "token.secret")
}

func TestLoad_DatabaseTokensNeedPostgres(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
storage: {driver: memory}
resend: {api_key: re_123}
token: {mode: database}
`)
	_, err := Load(p)
	require.ErrorContains(t, err, "token.mode database")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, Duration("2s", time.Minute))
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, time.Minute, Duration("-1s", time.Minute))
}

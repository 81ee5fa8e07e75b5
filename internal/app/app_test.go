package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/burtonmail/internal/config"
)

func memoryConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = "memory"
	cfg.Dispatch.Relay = "resend"
	cfg.Resend.APIKey = "re_test"
	cfg.Resend.Endpoint = endpoint
	cfg.Token.Mode = "jwt"
	cfg.Token.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Rate.Backend = "memory"
	cfg.Rate.Reset.Limit = 3
	cfg.Rate.Reset.Window = "15m"
	cfg.Server.CORSAllowedOrigins = []string{"*"}
	return cfg
}

func TestBuild_MemoryStack(t *testing.T) {
	var calls atomic.Int32
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer relay.Close()

	c, err := Build(context.Background(), memoryConfig(relay.URL))
	require.NoError(t, err)
	defer c.Close()

	require.Nil(t, c.PG)
	require.NotNil(t, c.ResetLimiter)
	require.Equal(t, "resend", c.Relay.Name())
	require.True(t, c.Dispatcher.Gate().TestMode())

	h := c.Handler(true)
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-email",
		strings.NewReader(`{"to":["a@b.com"],"subject":"s","html":"<p>h</p>"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 1, calls.Load())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBuild_DatabaseTokensNeedPostgres(t *testing.T) {
	cfg := memoryConfig("")
	cfg.Token.Mode = "database"
	_, err := Build(context.Background(), cfg)
	require.ErrorContains(t, err, "requires postgres")
}

func TestBuild_RateDisabled(t *testing.T) {
	cfg := memoryConfig("")
	off := false
	cfg.Rate.Enabled = &off
	c, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, c.ResetLimiter)
	require.NoError(t, c.Close())
}

func TestBuild_UnknownRelay(t *testing.T) {
	cfg := memoryConfig("")
	cfg.Dispatch.Relay = "fax"
	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

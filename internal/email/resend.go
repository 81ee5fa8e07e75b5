package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// DefaultResendEndpoint es el endpoint de envío de Resend.
const DefaultResendEndpoint = "https://api.resend.com/emails"

// maxRelayBody limita cuánto leemos de la respuesta del relay.
const maxRelayBody = 1 << 20

// ResendRelay envía vía la API HTTP de Resend con bearer token.
type ResendRelay struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewResendRelay crea el relay. endpoint vacío usa DefaultResendEndpoint y
// client nil usa http.DefaultClient (el timeout lo pone el Dispatcher vía ctx).
func NewResendRelay(apiKey, endpoint string, client *http.Client) *ResendRelay {
	if endpoint == "" {
		endpoint = DefaultResendEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendRelay{endpoint: endpoint, apiKey: apiKey, client: client}
}

func (r *ResendRelay) Name() string { return "resend" }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send hace exactamente un POST. Respuestas no-2xx vuelven como *RelayError
// con el body textual.
func (r *ResendRelay) Send(ctx context.Context, msg Message) (*RelayResult, error) {
	payload, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return nil, fmt.Errorf("resend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRelayBody))
	if err != nil {
		return nil, fmt.Errorf("resend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RelayError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Temporary:  resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	res := &RelayResult{Body: json.RawMessage(body)}
	var parsed resendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		logger.From(ctx).Warn("resend: unparseable success body",
			logger.Component("ResendRelay"),
			logger.Err(err),
		)
	}
	res.MessageID = strings.TrimSpace(parsed.ID)
	if !json.Valid(body) {
		// El caller HTTP espera JSON; sintetizamos uno mínimo.
		res.Body, _ = json.Marshal(resendResponse{ID: res.MessageID})
	}
	return res, nil
}

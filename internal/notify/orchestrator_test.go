package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/domain/types"
	"github.com/dropDatabas3/burtonmail/internal/email"
	"github.com/dropDatabas3/burtonmail/internal/ledger"
	"github.com/dropDatabas3/burtonmail/internal/receipt"
	"github.com/dropDatabas3/burtonmail/internal/store/memory"
	"github.com/dropDatabas3/burtonmail/internal/token"
)

type stubMinter struct{ calls int }

func (s *stubMinter) Mint(_ context.Context, member string) (string, error) {
	s.calls++
	return "tok-" + member, nil
}

// relayServer simula Resend y guarda los payloads recibidos.
type relayServer struct {
	*httptest.Server
	mu       sync.Mutex
	payloads []map[string]any
	status   int
	body     string
}

func newRelayServer(t *testing.T, status int, body string) *relayServer {
	rs := &relayServer{status: status, body: body}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]any
		_ = json.NewDecoder(r.Body).Decode(&p)
		rs.mu.Lock()
		rs.payloads = append(rs.payloads, p)
		rs.mu.Unlock()
		w.WriteHeader(rs.status)
		_, _ = w.Write([]byte(rs.body))
	}))
	t.Cleanup(rs.Close)
	return rs
}

type fixture struct {
	st     *memory.Store
	minter *stubMinter
	relay  *relayServer
	orch   *Orchestrator
}

func newFixture(t *testing.T, status int, body string, testMode bool) *fixture {
	st := memory.New()
	minter := &stubMinter{}
	rs := newRelayServer(t, status, body)
	disp := email.NewDispatcher(
		email.DispatchConfig{TestMode: testMode},
		email.NewResendRelay("re_test", rs.URL, rs.Client()),
		ledger.New(st.Ledger()),
	)
	orch := New(Deps{
		Sender:   disp,
		Tokens:   token.NewIssuer(st.Members(), minter),
		Receipts: receipt.NewGenerator(st.Receipts(), st.Members()),
		ResetURL: "https://app.pwaburton.org/reset-password",
	})
	return &fixture{st: st, minter: minter, relay: rs, orch: orch}
}

func TestPasswordReset_EndToEnd(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"msg_abc"}`, true)
	f.st.PutMember(repository.Member{Number: "M100"})

	res, err := f.orch.PasswordReset(context.Background(), PasswordResetInput{
		MemberNumber: "m100", Email: "a@b.com", Phone: "0123",
	})
	require.NoError(t, err)
	require.Equal(t, "msg_abc", res.ProviderMessageID)
	require.JSONEq(t, `{"id":"msg_abc"}`, string(res.Raw))
	require.Equal(t, 1, f.minter.calls)

	m, err := f.st.Members().GetByNumber(context.Background(), "M100")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", m.Email)
	require.Equal(t, "0123", m.Phone)

	entries := f.st.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, types.StatusSent, entries[0].Status)
	require.Equal(t, types.KindPasswordReset, entries[0].Kind)
	require.Equal(t, "M100", entries[0].CorrelationID)

	require.Len(t, f.relay.payloads, 1)
	p := f.relay.payloads[0]
	require.Equal(t, email.ResetSubject, p["subject"])
	require.Equal(t, []any{email.DefaultTestRecipient}, p["to"])
	require.Contains(t, p["html"], "reset-password?token=tok-M100")
}

func TestPasswordReset_MismatchNoSideEffects(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"x"}`, true)
	f.st.PutMember(repository.Member{Number: "M100", Email: "real@b.com", Phone: "1"})

	_, err := f.orch.PasswordReset(context.Background(), PasswordResetInput{
		MemberNumber: "M100", Email: "other@b.com", Phone: "2",
	})
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
	require.Equal(t, 0, f.minter.calls)
	require.Empty(t, f.st.Entries())
	require.Empty(t, f.relay.payloads)

	m, _ := f.st.Members().GetByNumber(context.Background(), "M100")
	require.Equal(t, "real@b.com", m.Email)
}

func TestPasswordReset_RelayRejects(t *testing.T) {
	body := `{"statusCode":422,"message":"bad"}`
	f := newFixture(t, http.StatusUnprocessableEntity, body, true)
	f.st.PutMember(repository.Member{Number: "M100"})

	_, err := f.orch.PasswordReset(context.Background(), PasswordResetInput{MemberNumber: "M100", Email: "a@b.com"})
	require.True(t, notifyerr.Is(err, notifyerr.KindDelivery))

	entries := f.st.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, types.StatusFailed, entries[0].Status)
	require.Equal(t, body, entries[0].ErrorMessage)
}

func TestPaymentReceipt_SendsThroughGate(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"msg_r"}`, true)
	f.st.PutMember(repository.Member{Number: "M100", Email: "member@example.com"})

	res, err := f.orch.PaymentReceipt(context.Background(), receipt.Request{
		PaymentID: "pay-1", MemberNumber: "M100", MemberName: "Jane", AmountPence: 2500,
		PaymentType: "yearly", PaymentMethod: "cash", CollectorName: "Ali",
	})
	require.NoError(t, err)
	require.Equal(t, "msg_r", res.Receipt.EmailLogReference)

	p := f.relay.payloads[0]
	require.Equal(t, []any{email.DefaultTestRecipient}, p["to"])
	require.True(t, strings.HasPrefix(p["subject"].(string), "Payment Receipt - REC"))
	require.Contains(t, p["html"], "£25.00")

	entries := f.st.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "member@example.com", entries[0].Recipient)
	require.Equal(t, "pay-1", entries[0].CorrelationID)
}

func TestPaymentReceipt_DuplicateDoesNotSendTwice(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"msg_r"}`, false)
	f.st.PutMember(repository.Member{Number: "M100", Email: "member@example.com"})
	req := receipt.Request{PaymentID: "pay-1", MemberNumber: "M100", AmountPence: 100}

	_, err := f.orch.PaymentReceipt(context.Background(), req)
	require.NoError(t, err)
	_, err = f.orch.PaymentReceipt(context.Background(), req)
	require.True(t, notifyerr.Is(err, notifyerr.KindConflict))
	require.Len(t, f.relay.payloads, 1)
	require.Equal(t, 1, f.st.ReceiptCount())
}

func TestPaymentReceipt_FailedSendKeepsReceipt(t *testing.T) {
	f := newFixture(t, http.StatusInternalServerError, `{"message":"down"}`, false)
	f.st.PutMember(repository.Member{Number: "M100", Email: "member@example.com"})

	_, err := f.orch.PaymentReceipt(context.Background(), receipt.Request{PaymentID: "pay-1", MemberNumber: "M100", AmountPence: 100})
	require.True(t, notifyerr.Is(err, notifyerr.KindDelivery))
	require.Equal(t, 1, f.st.ReceiptCount())
}

func TestSend_Generic(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"m"}`, false)

	_, err := f.orch.Send(context.Background(), types.NotificationRequest{
		Recipients: []string{" x@y.com ", ""},
		Subject:    "Hello",
		HTML:       "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, []any{"x@y.com"}, f.relay.payloads[0]["to"])
	require.Equal(t, types.KindNotification, f.st.Entries()[0].Kind)

	_, err = f.orch.Send(context.Background(), types.NotificationRequest{Recipients: []string{""}, Subject: "s", HTML: "h"})
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
}

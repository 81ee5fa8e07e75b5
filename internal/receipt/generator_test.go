package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/store/memory"
)

func seeded() *memory.Store {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100", Email: "member@example.com"})
	st.PutMember(repository.Member{Number: "M200"})
	return st
}

func paymentReq(id string) Request {
	return Request{
		PaymentID:     id,
		MemberNumber:  "M100",
		MemberName:    "Jane Doe",
		AmountPence:   2500,
		PaymentType:   "yearly",
		PaymentMethod: "cash",
		CollectorName: "Ali",
	}
}

func TestGenerate_PersistsAndRenders(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())

	rc, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.NoError(t, err)
	require.NotEmpty(t, rc.ID)
	require.True(t, strings.HasPrefix(rc.ReceiptNumber, "REC"))
	require.Equal(t, "member@example.com", rc.RecipientEmail)
	require.Equal(t, 1, st.ReceiptCount())

	html, err := Render(rc, time.Date(2024, 3, 7, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, html, "£25.00")
	require.Contains(t, html, "07/03/2024")
	require.Contains(t, html, rc.ReceiptNumber)
	require.Contains(t, html, "Jane Doe")
	require.Equal(t, "Payment Receipt - "+rc.ReceiptNumber, Subject(rc))
}

func TestGenerate_DuplicatePaymentIsConflict(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())

	_, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), paymentReq("pay-1"))
	require.True(t, notifyerr.Is(err, notifyerr.KindConflict))
	require.Equal(t, 1, st.ReceiptCount())
}

func TestGenerate_DistinctNumbers(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())

	a, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), paymentReq("pay-2"))
	require.NoError(t, err)
	require.NotEqual(t, a.ReceiptNumber, b.ReceiptNumber)
}

func TestGenerate_MemberWithoutEmail(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())

	req := paymentReq("pay-1")
	req.MemberNumber = "M200"
	_, err := g.Generate(context.Background(), req)
	require.True(t, notifyerr.Is(err, notifyerr.KindNotFound))

	req.MemberNumber = "M999"
	_, err = g.Generate(context.Background(), req)
	require.True(t, notifyerr.Is(err, notifyerr.KindNotFound))
	require.Equal(t, 0, st.ReceiptCount())
}

func TestGenerate_Validation(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())

	req := paymentReq("")
	_, err := g.Generate(context.Background(), req)
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))

	req = paymentReq("pay-1")
	req.AmountPence = 0
	_, err = g.Generate(context.Background(), req)
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
}

// collidingRepo rechaza los primeros n Create con colisión de número.
type collidingRepo struct {
	repository.ReceiptRepository
	collisions int
	seen       []string
}

func (c *collidingRepo) Create(ctx context.Context, rc *repository.Receipt) error {
	c.seen = append(c.seen, rc.ReceiptNumber)
	if c.collisions > 0 {
		c.collisions--
		return repository.ErrDuplicateReceiptNumber
	}
	return c.ReceiptRepository.Create(ctx, rc)
}

func TestGenerate_RetriesNumberCollision(t *testing.T) {
	st := seeded()
	repo := &collidingRepo{ReceiptRepository: st.Receipts(), collisions: 2}
	g := NewGenerator(repo, st.Members())

	rc, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.NoError(t, err)
	require.Len(t, repo.seen, 3)
	require.Equal(t, repo.seen[2], rc.ReceiptNumber)
	require.NotEqual(t, repo.seen[0], repo.seen[1])
}

func TestGenerate_GivesUpAfterBoundedRetries(t *testing.T) {
	st := seeded()
	repo := &collidingRepo{ReceiptRepository: st.Receipts(), collisions: 100}
	g := NewGenerator(repo, st.Members())

	_, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.True(t, notifyerr.Is(err, notifyerr.KindPersistence))
	require.Len(t, repo.seen, maxNumberAttempts)
}

type failingAttach struct{ repository.ReceiptRepository }

func (failingAttach) AttachEmailLog(context.Context, string, string) error {
	return errors.New("db down")
}

func TestAttachEmailLog_BestEffort(t *testing.T) {
	st := seeded()
	g := NewGenerator(st.Receipts(), st.Members())
	rc, err := g.Generate(context.Background(), paymentReq("pay-1"))
	require.NoError(t, err)

	g.AttachEmailLog(context.Background(), rc, "msg_1")
	got, err := g.Lookup(context.Background(), "pay-1")
	require.NoError(t, err)
	require.Equal(t, "msg_1", got.EmailLogReference)

	broken := NewGenerator(failingAttach{st.Receipts()}, st.Members())
	broken.AttachEmailLog(context.Background(), rc, "msg_2") // no panic, no error
}

package token

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/store/memory"
)

type countingMinter struct {
	calls int
	err   error
}

func (c *countingMinter) Mint(_ context.Context, member string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "tok-" + member, nil
}

func TestIssue_EmptyStoredEmailUpdatesContact(t *testing.T) {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100", Phone: "999"})
	minter := &countingMinter{}
	iss := NewIssuer(st.Members(), minter)

	tok, err := iss.IssueResetToken(context.Background(), "m100", "a@b.com", "0123")
	require.NoError(t, err)
	require.Equal(t, "tok-M100", tok)
	require.Equal(t, 1, minter.calls)

	m, err := st.Members().GetByNumber(context.Background(), "M100")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", m.Email)
	require.Equal(t, "0123", m.Phone)
}

func TestIssue_BlankPhoneKeepsStoredPhone(t *testing.T) {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100", Phone: "07700900123"})
	iss := NewIssuer(st.Members(), &countingMinter{})

	_, err := iss.IssueResetToken(context.Background(), "M100", "a@b.com", "  ")
	require.NoError(t, err)

	m, err := st.Members().GetByNumber(context.Background(), "M100")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", m.Email)
	require.Equal(t, "07700900123", m.Phone)
}

func TestIssue_MatchingEmailIgnoresCase(t *testing.T) {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100", Email: "A@B.com"})
	iss := NewIssuer(st.Members(), &countingMinter{})

	_, err := iss.IssueResetToken(context.Background(), "M100", " a@b.com ", "0123")
	require.NoError(t, err)
}

func TestIssue_MismatchNoMutationNoToken(t *testing.T) {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100", Email: "real@b.com", Phone: "111"})
	minter := &countingMinter{}
	iss := NewIssuer(st.Members(), minter)

	_, err := iss.IssueResetToken(context.Background(), "M100", "other@b.com", "222")
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
	require.Equal(t, MsgEmailMismatch, notifyerr.UserMessage(err))
	require.Equal(t, 0, minter.calls)

	m, _ := st.Members().GetByNumber(context.Background(), "M100")
	require.Equal(t, "real@b.com", m.Email)
	require.Equal(t, "111", m.Phone)
}

func TestIssue_UnknownMember(t *testing.T) {
	minter := &countingMinter{}
	iss := NewIssuer(memory.New().Members(), minter)

	_, err := iss.IssueResetToken(context.Background(), "M404", "a@b.com", "")
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
	require.Equal(t, MsgInvalidMember, notifyerr.UserMessage(err))
	require.Equal(t, 0, minter.calls)
}

func TestIssue_MintFailureIsPersistence(t *testing.T) {
	st := memory.New()
	st.PutMember(repository.Member{Number: "M100"})
	iss := NewIssuer(st.Members(), &countingMinter{err: errors.New("rpc failed")})

	_, err := iss.IssueResetToken(context.Background(), "M100", "a@b.com", "")
	require.True(t, notifyerr.Is(err, notifyerr.KindPersistence))
}

func TestIssue_RequiresFields(t *testing.T) {
	iss := NewIssuer(memory.New().Members(), &countingMinter{})
	_, err := iss.IssueResetToken(context.Background(), "  ", "a@b.com", "")
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
	_, err = iss.IssueResetToken(context.Background(), "M1", "", "")
	require.True(t, notifyerr.Is(err, notifyerr.KindValidation))
}

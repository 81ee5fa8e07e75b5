package token

import (
	"context"
	"strings"

	"github.com/dropDatabas3/burtonmail/internal/domain/notifyerr"
	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
	"github.com/dropDatabas3/burtonmail/internal/observability/logger"
)

// Mensajes visibles para el usuario.
const (
	MsgInvalidMember = "Invalid member number"
	MsgEmailMismatch = "Please use your registered email address"
)

// Minter genera un token de reset opaco para un miembro.
type Minter interface {
	Mint(ctx context.Context, memberNumber string) (string, error)
}

// Issuer orquesta lookup, match, update de contacto y mint.
type Issuer struct {
	members repository.MemberRepository
	minter  Minter
}

// NewIssuer crea el issuer.
func NewIssuer(members repository.MemberRepository, minter Minter) *Issuer {
	return &Issuer{members: members, minter: minter}
}

// NormalizeMemberNumber aplica el formato canónico (trim + mayúsculas).
func NormalizeMemberNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// emailsMatch compara ignorando mayúsculas y espacios.
func emailsMatch(registered, claimed string) bool {
	return strings.EqualFold(strings.TrimSpace(registered), strings.TrimSpace(claimed))
}

// IssueResetToken retorna un token para memberNumber si claimedEmail es
// consistente con lo registrado.
func (i *Issuer) IssueResetToken(ctx context.Context, memberNumber, claimedEmail, phone string) (string, error) {
	const op = "Issuer.IssueResetToken"

	memberNumber = NormalizeMemberNumber(memberNumber)
	claimedEmail = strings.TrimSpace(claimedEmail)
	if memberNumber == "" || claimedEmail == "" {
		return "", notifyerr.Validation(op, "Member number and email are required")
	}

	log := logger.From(ctx).With(logger.Op(op), logger.MemberNumber(memberNumber))

	m, err := i.members.GetByNumber(ctx, memberNumber)
	switch {
	case repository.IsNotFound(err):
		return "", notifyerr.Validation(op, MsgInvalidMember)
	case err != nil:
		log.Error("member lookup failed", logger.Err(err))
		return "", notifyerr.Persistence(op, "Failed to look up member", err)
	}

	if strings.TrimSpace(m.Email) != "" && !emailsMatch(m.Email, claimedEmail) {
		log.Info("reset rejected: email mismatch", logger.Email(claimedEmail))
		return "", notifyerr.Validation(op, MsgEmailMismatch)
	}

	// Sin teléfono en el request se conserva el registrado.
	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = m.Phone
	}
	if err := i.members.UpdateContact(ctx, memberNumber, claimedEmail, phone); err != nil {
		log.Error("update member contact failed", logger.Err(err))
		return "", notifyerr.Persistence(op, "Failed to update member details", err)
	}

	tok, err := i.minter.Mint(ctx, memberNumber)
	if err != nil {
		log.Error("mint reset token failed", logger.Err(err))
		return "", notifyerr.Persistence(op, "Failed to generate reset token", err)
	}
	if tok == "" {
		return "", notifyerr.Internal(op, "Failed to generate reset token", nil)
	}
	return tok, nil
}

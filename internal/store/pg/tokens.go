package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenMinter delega la generación del token de reset al RPC de la base.
type TokenMinter struct {
	pool *pgxpool.Pool
}

// Mint implementa token.Minter.
func (m *TokenMinter) Mint(ctx context.Context, memberNumber string) (string, error) {
	var tok *string
	if err := m.pool.QueryRow(ctx, `SELECT generate_password_reset_token($1)`, memberNumber).Scan(&tok); err != nil {
		return "", fmt.Errorf("generate_password_reset_token: %w", mapError(err))
	}
	if tok == nil || *tok == "" {
		return "", fmt.Errorf("generate_password_reset_token returned no token")
	}
	return *tok, nil
}

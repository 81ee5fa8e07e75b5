package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
)

type memberRepo struct {
	pool *pgxpool.Pool
}

func (r *memberRepo) GetByNumber(ctx context.Context, number string) (*repository.Member, error) {
	const q = `
		SELECT member_number, email, phone, auth_user_id::text
		FROM members WHERE UPPER(member_number) = UPPER($1)
	`
	var (
		m                    repository.Member
		email, phone, authID *string
	)
	if err := r.pool.QueryRow(ctx, q, number).Scan(&m.Number, &email, &phone, &authID); err != nil {
		return nil, mapError(err)
	}
	m.Email = deref(email)
	m.Phone = deref(phone)
	m.AuthUserID = deref(authID)
	return &m, nil
}

func (r *memberRepo) UpdateContact(ctx context.Context, number, email, phone string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE members SET email = $2, phone = $3, updated_at = NOW()
		WHERE UPPER(member_number) = UPPER($1)
	`, number, nullIfEmpty(email), nullIfEmpty(phone))
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

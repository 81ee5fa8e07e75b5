package repository

import "context"

// Member es la vista mínima de la tabla members (store de identidad externo).
type Member struct {
	Number     string
	Email      string
	Phone      string
	AuthUserID string
}

// MemberRepository lee y actualiza datos de contacto de miembros.
type MemberRepository interface {
	// GetByNumber retorna ErrNotFound si el número no existe.
	GetByNumber(ctx context.Context, number string) (*Member, error)

	// UpdateContact reemplaza email y teléfono del miembro.
	UpdateContact(ctx context.Context, number, email, phone string) error
}

package token

import (
	"fmt"
	"net/url"
)

// DefaultResetURL es la página de reset del frontend en desarrollo.
const DefaultResetURL = "http://localhost:5173/reset-password"

// BuildResetLink agrega token como query param a base, preservando los
// parámetros existentes.
func BuildResetLink(base, token string) (string, error) {
	if base == "" {
		base = DefaultResetURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse reset url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("reset url must be absolute: %q", base)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Package util tiene helpers chicos sin dependencias internas.
package util

import "strings"

// MaskEmail deja la primera letra del usuario y del primer label del dominio:
// "alice@example.com" -> "a…@e….com". Sirve para logs; el ledger guarda la
// dirección completa.
func MaskEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	user, dom, ok := strings.Cut(s, "@")
	if !ok || user == "" {
		return maskPart(s, 3)
	}
	labels := strings.Split(dom, ".")
	labels[0] = maskPart(labels[0], 1)
	return maskPart(user, 1) + "@" + strings.Join(labels, ".")
}

// MaskEmails aplica MaskEmail a cada elemento.
func MaskEmails(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = MaskEmail(s)
	}
	return out
}

// maskPart conserva el primer rune; con minLen o menos runes se oculta todo.
func maskPart(s string, minLen int) string {
	r := []rune(s)
	switch {
	case len(r) <= 1:
		return s
	case len(r) <= minLen:
		return "***"
	}
	return string(r[:1]) + "…"
}

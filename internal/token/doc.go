// Package token emite tokens de reset de contraseña.
//
// IssueResetToken valida que el miembro exista y que el email declarado
// coincida con el registrado (o que no haya ninguno), actualiza los datos de
// contacto y recién entonces pide un token al Minter. Una validación fallida
// nunca modifica datos.
//
// Minters:
//   - JWTMinter: HS256 firmado en proceso (sub=member_number, exp=1h).
//   - pg.TokenMinter: RPC generate_password_reset_token en Postgres.
package token

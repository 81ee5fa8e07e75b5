// Package functions contiene los DTOs de las rutas /functions/v1.
package functions

import "encoding/json"

// SendEmailRequest es el body de POST /functions/v1/send-email.
type SendEmailRequest struct {
	To           []string `json:"to"`
	Subject      string   `json:"subject"`
	HTML         string   `json:"html"`
	From         string   `json:"from,omitempty"`
	ReplyTo      string   `json:"replyTo,omitempty"`
	MemberNumber string   `json:"memberNumber,omitempty"`
	EmailType    string   `json:"emailType,omitempty"`
}

// PaymentReceiptRequest es el body de POST /functions/v1/send-payment-receipt.
// Amount es un número JSON en libras (25, 25.5).
type PaymentReceiptRequest struct {
	PaymentID     string      `json:"paymentId"`
	MemberNumber  string      `json:"memberNumber"`
	MemberName    string      `json:"memberName"`
	Amount        json.Number `json:"amount"`
	PaymentType   string      `json:"paymentType"`
	PaymentMethod string      `json:"paymentMethod"`
	CollectorName string      `json:"collectorName"`
}

// PasswordResetRequest es el body de POST /functions/v1/password-reset.
type PasswordResetRequest struct {
	MemberNumber string `json:"memberNumber"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// PasswordResetResponse no revela el token ni a quién se envió realmente.
type PasswordResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

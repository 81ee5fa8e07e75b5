package receipt

import (
	"bytes"
	"fmt"
	htemplate "html/template"
	"time"

	"github.com/dropDatabas3/burtonmail/internal/domain/repository"
)

// Subject retorna el asunto del email de un recibo.
func Subject(rc *repository.Receipt) string {
	return "Payment Receipt - " + rc.ReceiptNumber
}

type receiptVars struct {
	ReceiptNumber string
	Date          string
	MemberName    string
	MemberNumber  string
	Amount        string
	PaymentType   string
	PaymentMethod string
	CollectorName string
}

const receiptHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Payment Receipt</title>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { text-align: center; margin-bottom: 30px; padding: 20px; background-color: #f8f9fa; border-radius: 5px; }
      .receipt-number { font-size: 1.2em; color: #666; margin-bottom: 20px; }
      .details { margin-bottom: 30px; }
      .detail-row { display: flex; justify-content: space-between; padding: 10px 0; border-bottom: 1px solid #eee; }
      .footer { text-align: center; margin-top: 30px; padding-top: 20px; border-top: 2px solid #eee; font-size: 0.9em; color: #666; }
    </style>
  </head>
  <body>
    <div class="header">
      <h1>PWA Burton</h1>
      <h2>Payment Receipt</h2>
    </div>
    <div class="receipt-number">Receipt Number: {{.ReceiptNumber}}</div>
    <div class="details">
      <div class="detail-row"><strong>Date:</strong><span>{{.Date}}</span></div>
      <div class="detail-row"><strong>Member Name:</strong><span>{{.MemberName}}</span></div>
      <div class="detail-row"><strong>Member Number:</strong><span>{{.MemberNumber}}</span></div>
      <div class="detail-row"><strong>Amount Paid:</strong><span>{{.Amount}}</span></div>
      <div class="detail-row"><strong>Payment Type:</strong><span>{{.PaymentType}}</span></div>
      <div class="detail-row"><strong>Payment Method:</strong><span>{{.PaymentMethod}}</span></div>
      <div class="detail-row"><strong>Collector:</strong><span>{{.CollectorName}}</span></div>
    </div>
    <div class="footer">
      <p>Thank you for your payment. Please keep this receipt for your records.</p>
      <p>If you have any questions, please contact your collector or PWA Burton administration.</p>
    </div>
  </body>
</html>
`

var receiptTmpl = htemplate.Must(htemplate.New("receipt_html").Parse(receiptHTML))

// Render genera el HTML del recibo. sentAt es la fecha de envío (dd/mm/yyyy).
func Render(rc *repository.Receipt, sentAt time.Time) (string, error) {
	vars := receiptVars{
		ReceiptNumber: rc.ReceiptNumber,
		Date:          sentAt.Format("02/01/2006"),
		MemberName:    rc.MemberName,
		MemberNumber:  rc.MemberNumber,
		Amount:        FormatGBP(rc.AmountPence),
		PaymentType:   rc.PaymentType,
		PaymentMethod: rc.PaymentMethod,
		CollectorName: rc.CollectorName,
	}
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("receipt: render template: %w", err)
	}
	return buf.String(), nil
}

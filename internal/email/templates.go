package email

import (
	"bytes"
	"fmt"
	htemplate "html/template"
)

// ResetSubject es el asunto del email de reset.
const ResetSubject = "Reset Your PWA Burton Password"

// ResetVars son las variables del template de reset.
type ResetVars struct {
	Link string
}

const resetHTML = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Reset Your Password</title>
  </head>
  <body style="margin:0;padding:0;background-color:#1A1F2C;font-family:Arial,sans-serif;">
    <table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:0 auto;background-color:#1A1F2C;color:#FFFFFF;">
      <tr>
        <td style="padding:40px 20px;text-align:center;background:#7E69AB;">
          <h1 style="margin:0;color:#FFFFFF;font-size:28px;">PWA Burton</h1>
        </td>
      </tr>
      <tr>
        <td style="padding:40px 20px;background-color:#2A2F3C;">
          <h2 style="color:#9b87f5;font-size:24px;">Password Reset Request</h2>
          <p>Hello,</p>
          <p>We received a request to reset your password. Click the button below to set a new password:</p>
          <div style="text-align:center;margin:30px 0;">
            <a href="{{.Link}}" style="display:inline-block;padding:12px 24px;background-color:#9b87f5;color:#FFFFFF;text-decoration:none;border-radius:6px;font-weight:bold;">Reset Password</a>
          </div>
          <p style="font-size:14px;">This link will expire in 1 hour for security reasons. If you didn't request this reset, please ignore this email.</p>
          <div style="border-top:1px solid #3A3F4C;margin:30px 0;padding-top:20px;">
            <p style="color:#9b87f5;">Need Help?</p>
            <p style="font-size:14px;">If you're having trouble with the button above, copy and paste the following URL into your web browser:</p>
            <p style="color:#D6BCFA;font-size:12px;word-break:break-all;">{{.Link}}</p>
          </div>
        </td>
      </tr>
      <tr>
        <td style="padding:20px;text-align:center;font-size:12px;color:#8E9196;">PWA Burton</td>
      </tr>
    </table>
  </body>
</html>
`

var resetTmpl = htemplate.Must(htemplate.New("reset_html").Parse(resetHTML))

// RenderPasswordReset renderiza el HTML del email de reset.
func RenderPasswordReset(v ResetVars) (string, error) {
	if v.Link == "" {
		return "", fmt.Errorf("email: reset link is required")
	}
	var buf bytes.Buffer
	if err := resetTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("email: render reset template: %w", err)
	}
	return buf.String(), nil
}

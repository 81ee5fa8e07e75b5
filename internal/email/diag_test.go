package email

import (
	"errors"
	"testing"
)

func TestDiagnoseSMTP(t *testing.T) {
	cases := []struct {
		err       string
		code      string
		temporary bool
	}{
		{"dial tcp 10.0.0.1:587: connect: connection refused", "dial", true},
		{"535 5.7.8 Username and Password not accepted", "auth", false},
		{"x509: certificate signed by unknown authority", "tls", false},
		{"421 4.7.0 Try again later", "rate_limited", true},
		{"550 5.1.1 user unknown", "invalid_recipient", false},
		{"554 5.7.1 Message rejected due to policy", "rejected", false},
		{"i/o timeout", "timeout", true},
		{"something odd", "unknown", false},
	}
	for _, c := range cases {
		d := DiagnoseSMTP(errors.New(c.err))
		if d.Code != c.code || d.Temporary != c.temporary {
			t.Errorf("%q: got (%s,%v) want (%s,%v)", c.err, d.Code, d.Temporary, c.code, c.temporary)
		}
	}
}

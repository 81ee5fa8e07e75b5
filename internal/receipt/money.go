package receipt

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var gbPrinter = message.NewPrinter(language.BritishEnglish)

// amountPattern es la gramática de número JSON sin signo; también acepta
// ".5". El exponente se acota para que big.Rat no reserve memoria absurda.
var amountPattern = regexp.MustCompile(`^(\d*)(\.\d+)?(?:[eE]([+-]?\d{1,3}))?$`)

const maxExponent = 30

var (
	hundred  = big.NewInt(100)
	maxPence = new(big.Int).SetInt64(math.MaxInt64)
)

// ParseAmount convierte un importe en libras ("25", "25.5", "2.5e1",
// "19.990000000000002") a peniques, redondeando half-even al penique. No pasa
// por float64. Importes que redondean a <= 0 son error.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	m := amountPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if m[3] != "" {
		exp, _ := strconv.Atoi(m[3])
		if exp > maxExponent || exp < -maxExponent {
			return 0, fmt.Errorf("invalid amount %q", s)
		}
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	r.Mul(r, new(big.Rat).SetInt(hundred))

	pence := roundHalfEven(r)
	if pence.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	if pence.Cmp(maxPence) > 0 {
		return 0, fmt.Errorf("amount too large")
	}
	return pence.Int64(), nil
}

// roundHalfEven redondea un racional no negativo al entero más cercano.
func roundHalfEven(r *big.Rat) *big.Int {
	q, rem := new(big.Int).QuoRem(r.Num(), r.Denom(), new(big.Int))
	twice := rem.Lsh(rem, 1)
	switch twice.Cmp(r.Denom()) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

// FormatGBP formatea peniques como en en-GB: 2500 -> "£25.00", 123456 -> "£1,234.56".
func FormatGBP(pence int64) string {
	sign := ""
	if pence < 0 {
		sign = "-"
		pence = -pence
	}
	return fmt.Sprintf("%s£%s.%02d", sign, gbPrinter.Sprintf("%d", pence/100), pence%100)
}

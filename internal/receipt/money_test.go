package receipt

import "testing"

func TestParseAmount(t *testing.T) {
	ok := []struct {
		in   string
		want int64
	}{
		{"25", 2500},
		{"25.5", 2550},
		{"25.05", 2505},
		{"0.01", 1},
		{".5", 50},
		{"1234.56", 123456},
		{"2.5e1", 2500},
		{"1E2", 10000},
		{"19.990000000000002", 1999},
		{"25.001", 2500},
		{"0.125", 12}, // half-even
		{"0.135", 14},
		{"0.0151", 2},
	}
	for _, c := range ok {
		got, err := ParseAmount(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d", c.in, got, err, c.want)
		}
	}
	for _, in := range []string{
		"", "0", "-5", "25.", "0.005", "abc", "+3", "2.-1", "1/2", "0x10", "1e999", "e5", "1e400000000",
		"99999999999999999999",
	} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q) expected error", in)
		}
	}
}

func TestFormatGBP(t *testing.T) {
	cases := map[int64]string{
		2500:      "£25.00",
		5:         "£0.05",
		123456:    "£1,234.56",
		100000000: "£1,000,000.00",
	}
	for in, want := range cases {
		if got := FormatGBP(in); got != want {
			t.Errorf("FormatGBP(%d) = %q; want %q", in, got, want)
		}
	}
}

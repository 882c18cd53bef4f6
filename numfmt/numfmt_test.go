package numfmt

import "testing"

func TestFormatNumberReadably(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{999999.49, "999999"},
		{999999.51, "1e+6"},
		{0.001, "0.001"},
		{0.000999, "999e-6"},
		{0, "0"},
		{1e-13, "0"},
		{-1e-13, "0"},
	}
	for _, c := range cases {
		if got := FormatNumberReadably(c.in); got != c.want {
			t.Errorf("FormatNumberReadably(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatNumberReadablyDeterministic(t *testing.T) {
	for _, v := range []float64{1.23456, 1234.5, 1e9, 42} {
		a := FormatNumberReadably(v)
		b := FormatNumberReadably(v)
		if a != b {
			t.Errorf("FormatNumberReadably(%v) not deterministic: %q vs %q", v, a, b)
		}
	}
}

func TestFormatUint64Readably(t *testing.T) {
	if got := FormatUint64Readably(42); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := FormatUint64Readably(1_000_000); got == "1000000" {
		t.Errorf("expected engineering notation past plainNumberLength digits, got %q", got)
	}
}

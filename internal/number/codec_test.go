package number

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"7", 7},
		{"12.5", 12.5},
		{"-12.5", -12.5},
		{"0.", 0},
		{"0.25", 0.25},
		{"100", 100},
		{"-", 0},
		{"", 0},
	}
	for _, tc := range tests {
		if got := Parse(tc.in); got != tc.want {
			t.Fatalf("Parse(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3.0, "3"},
		{12.5, "12.5"},
		{0.1, "0.1"},
		{-0.5, "-0.5"},
		{-2.25, "-2.25"},
		{2.0 / 3.0, "0.666666"},
		{-2.0 / 3.0, "-0.666666"},
		{0.000001, "0.000001"},
		{0.0000001, "0"},
		{1.05, "1.05"},
		{math.Copysign(0, -1), "0"},
		{1e6, "1000000"},
		{math.NaN(), "0"},
	}
	for _, tc := range tests {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("Format(%v): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestFormatTruncatesInsteadOfRounding(t *testing.T) {
	if got := Format(0.1234569); got != "0.123456" {
		t.Fatalf("expected truncation, got %q", got)
	}
	if got := FormatDigits(1.99, 1); got != "1.9" {
		t.Fatalf("expected 1.9, got %q", got)
	}
}

func TestFormatSaturates(t *testing.T) {
	if got := Format(math.Inf(1)); got != "9223372036854775807" {
		t.Fatalf("unexpected saturation %q", got)
	}
	if got := Format(math.Inf(-1)); got != "-9223372036854775807" {
		t.Fatalf("unexpected saturation %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"12.5", "0.1", "2.3", "123.456", "-7.25", "0.000001", "99999.999999", "3", "-0.5", "1000000", "0.7", "4.35"} {
		if got := Format(Parse(s)); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}
}

// Every display string of up to 15 significant digits that fits a Buffer
// must survive Parse then Format, at every integer width.
func TestRoundTripFullBuffer(t *testing.T) {
	for _, s := range []string{"29961588.44", "12345678.123456", "999999999.999999", "123456789012345", "1234567890.12345", "-29961588.44"} {
		if got := Format(Parse(s)); got != s {
			t.Fatalf("round trip %q: got %q", s, got)
		}
	}

	rng := rand.New(rand.NewSource(1))
	digit := func(lo int) byte { return byte('0' + lo + rng.Intn(10-lo)) }
	for intDigits := 1; intDigits <= significantDigits; intDigits++ {
		for fracDigits := 0; fracDigits <= FractionDigits && intDigits+fracDigits <= significantDigits; fracDigits++ {
			for n := 0; n < 300; n++ {
				var sb strings.Builder
				if intDigits == 1 {
					sb.WriteByte(digit(0))
				} else {
					sb.WriteByte(digit(1))
					for i := 1; i < intDigits; i++ {
						sb.WriteByte(digit(0))
					}
				}
				if fracDigits > 0 {
					sb.WriteByte('.')
					for i := 1; i < fracDigits; i++ {
						sb.WriteByte(digit(0))
					}
					sb.WriteByte(digit(1))
				}
				s := sb.String()
				if s == "0" {
					continue
				}
				for _, in := range []string{s, "-" + s} {
					if len(in) > BufferSize {
						continue
					}
					if got := Format(Parse(in)); got != in {
						t.Fatalf("round trip %q: got %q", in, got)
					}
				}
			}
		}
	}
}

func TestFormatLimitsSignificantDigits(t *testing.T) {
	if got := Format(1234567890.123456); got != "1234567890.12345" {
		t.Fatalf("expected decimals cut to 15 digits, got %q", got)
	}
	if got := Format(0.9999999); got != "0.999999" {
		t.Fatalf("expected truncation below 1, got %q", got)
	}
}

func TestPow10(t *testing.T) {
	if Pow10(0) != 1 || Pow10(3) != 1000 || Pow10(-2) != 1 {
		t.Fatalf("unexpected Pow10 results")
	}
}

func TestBuffer(t *testing.T) {
	b := NewBuffer("0")
	if err := b.Append("."); err != nil {
		t.Fatalf("append: %v", err)
	}
	if b.String() != "0." || b.Last() != '.' || !b.Contains('.') {
		t.Fatalf("unexpected buffer %q", b.String())
	}
	b.TrimLast()
	if b.String() != "0" {
		t.Fatalf("expected 0 after trim, got %q", b.String())
	}

	full := NewBuffer("1234567890123456")
	if err := full.Append("7"); !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	if full.String() != "1234567890123456" {
		t.Fatalf("failed append modified buffer: %q", full.String())
	}
	if err := full.Set("12345678901234567"); !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull on set, got %v", err)
	}
}

func TestBufferSetValue(t *testing.T) {
	var b Buffer
	if err := b.SetValue(15); err != nil || b.String() != "15" {
		t.Fatalf("expected 15, got %q (%v)", b.String(), err)
	}
	if err := b.SetValue(123456789012.123456); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if b.Len() > BufferSize || b.String()[:13] != "123456789012." {
		t.Fatalf("expected cut decimals, got %q", b.String())
	}
	if err := b.SetValue(1e20); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if b.String() != "0" {
		t.Fatalf("overflow must reset display, got %q", b.String())
	}
}

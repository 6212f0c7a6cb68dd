package calc

import (
	"errors"
	"testing"

	"github.com/relabs-tech/tilt_calculator/internal/keypad"
	"github.com/relabs-tech/tilt_calculator/internal/number"
)

func keysByLabel(t *testing.T) map[string]keypad.Key {
	t.Helper()
	g, err := keypad.DefaultGrid()
	if err != nil {
		t.Fatalf("default grid: %v", err)
	}
	m := make(map[string]keypad.Key)
	for _, k := range g.Keys() {
		m[k.Label] = k
	}
	return m
}

func press(t *testing.T, c *Calculator, labels ...string) {
	t.Helper()
	keys := keysByLabel(t)
	for _, l := range labels {
		k, ok := keys[l]
		if !ok {
			t.Fatalf("no key %q", l)
		}
		if err := c.Press(k); err != nil {
			t.Fatalf("press %q: %v", l, err)
		}
	}
}

func shown(c *Calculator) string {
	_, n := c.Display()
	return n
}

func TestInitialState(t *testing.T) {
	c := New()
	op, num := c.Display()
	if op != "" || num != "0" || c.Mode() != ModeNewOp {
		t.Fatalf("unexpected initial state op=%q num=%q mode=%v", op, num, c.Mode())
	}
}

func TestAddThenRepeatEquals(t *testing.T) {
	c := New()
	press(t, c, "1", "2", "+", "3", "=")
	if got := shown(c); got != "15" {
		t.Fatalf("expected 15, got %q", got)
	}
	press(t, c, "=")
	if got := shown(c); got != "18" {
		t.Fatalf("expected 18 after repeated equals, got %q", got)
	}
	press(t, c, "=")
	if got := shown(c); got != "21" {
		t.Fatalf("expected 21, got %q", got)
	}
}

func TestRepeatEqualsKeepsOperandOrder(t *testing.T) {
	c := New()
	press(t, c, "1", "0", "-", "3", "=")
	if got := shown(c); got != "7" {
		t.Fatalf("expected 7, got %q", got)
	}
	press(t, c, "=")
	if got := shown(c); got != "4" {
		t.Fatalf("expected 4, got %q", got)
	}

	c = New()
	press(t, c, "8", "/", "2", "=", "=")
	if got := shown(c); got != "2" {
		t.Fatalf("expected 2, got %q", got)
	}
}

func TestDivideByZeroShowsZero(t *testing.T) {
	c := New()
	press(t, c, "5", "/", "0", "=")
	if got := shown(c); got != "0" {
		t.Fatalf("expected 0, got %q", got)
	}
	if c.Mode() != ModeNewOp {
		t.Fatalf("expected newop after equals, got %v", c.Mode())
	}
}

func TestOperatorsChainLeftToRight(t *testing.T) {
	c := New()
	// The second operator replaces the first without evaluating it.
	press(t, c, "3", "+", "4", "*", "=")
	if got := shown(c); got != "16" {
		t.Fatalf("expected 16, got %q", got)
	}

	c = New()
	press(t, c, "3", "+", "4", "=", "*", "2", "=")
	if got := shown(c); got != "14" {
		t.Fatalf("expected 14, got %q", got)
	}
}

func TestOperatorDisplay(t *testing.T) {
	c := New()
	press(t, c, "9", "*")
	op, num := c.Display()
	if op != "*" || num != "9" || c.Mode() != ModeMidOp {
		t.Fatalf("unexpected state op=%q num=%q mode=%v", op, num, c.Mode())
	}
	if c.Accumulator() != 9 {
		t.Fatalf("expected accumulator 9, got %v", c.Accumulator())
	}
	if p, ok := c.Pending(); !ok || p != keypad.OpMul {
		t.Fatalf("expected pending multiply")
	}
	press(t, c, "4")
	if _, num := c.Display(); num != "4" {
		t.Fatalf("digit after operator must replace display, got %q", num)
	}
}

func TestDigitAfterResultStartsOver(t *testing.T) {
	c := New()
	press(t, c, "2", "+", "2", "=", "7")
	op, num := c.Display()
	if op != "" || num != "7" {
		t.Fatalf("expected fresh entry, got op=%q num=%q", op, num)
	}
	if _, ok := c.Pending(); ok {
		t.Fatalf("pending operator must be reset")
	}
	press(t, c, "=")
	if got := shown(c); got != "7" {
		t.Fatalf("equals without pending operator must be a no-op, got %q", got)
	}
}

func TestLeadingZerosSuppressed(t *testing.T) {
	c := New()
	press(t, c, "0", "0", "5")
	if got := shown(c); got != "5" {
		t.Fatalf("expected 5, got %q", got)
	}
}

func TestDecimalEntry(t *testing.T) {
	c := New()
	press(t, c, ".", "5")
	if got := shown(c); got != "0.5" {
		t.Fatalf("expected 0.5, got %q", got)
	}
	press(t, c, ".")
	if got := shown(c); got != "0.5" {
		t.Fatalf("second dot must be ignored, got %q", got)
	}
	press(t, c, "+", "1", ".", "0", "5", "=")
	if got := shown(c); got != "1.55" {
		t.Fatalf("expected 1.55, got %q", got)
	}
}

func TestZeroValuedDecimalIsReplaced(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{".", "0"}, "0.0"},
		{[]string{".", "0", "5"}, "5"},
		{[]string{"0", ".", "0", "5"}, "5"},
		{[]string{".", "0", "0"}, "0"},
	}
	for _, tc := range tests {
		c := New()
		press(t, c, tc.keys...)
		if got := shown(c); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.keys, tc.want, got)
		}
	}
}

func TestIdentityKeepsLargeValue(t *testing.T) {
	c := New()
	press(t, c, "2", "9", "9", "6", "1", "5", "8", "8", ".", "4", "4", "+", "0", "=")
	if got := shown(c); got != "29961588.44" {
		t.Fatalf("expected 29961588.44, got %q", got)
	}
}

func TestDotAfterResultStartsOver(t *testing.T) {
	c := New()
	press(t, c, "4", "+", "1", "=", ".", "5")
	if got := shown(c); got != "0.5" {
		t.Fatalf("expected 0.5, got %q", got)
	}
}

func TestClear(t *testing.T) {
	c := New()
	press(t, c, "1", "2", "3", "C")
	op, num := c.Display()
	if num != "0" || op != "" || c.Accumulator() != 0 {
		t.Fatalf("unexpected state after clear op=%q num=%q acc=%v", op, num, c.Accumulator())
	}

	c = New()
	press(t, c, "6", "+", "C")
	if _, ok := c.Pending(); !ok || c.Mode() != ModeMidOp {
		t.Fatalf("clear must keep pending operator and mode")
	}
}

func TestBackspace(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"5", "<-"}, "0"},
		{[]string{"1", "2", "<-"}, "1"},
		{[]string{"1", ".", "<-"}, "1"},
		{[]string{"<-"}, "0"},
		// "-2" loses its digit; the lone "-" left behind shows as "0".
		{[]string{"3", "-", "5", "=", "<-"}, "0"},
		{[]string{"3", "-", "2", "5", "=", "<-"}, "-2"},
		{[]string{"3", "-", "2", "5", "=", "<-", "<-"}, "0"},
	}
	for _, tc := range tests {
		c := New()
		press(t, c, tc.keys...)
		if got := shown(c); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.keys, tc.want, got)
		}
	}
}

func TestNegativeResults(t *testing.T) {
	c := New()
	press(t, c, "3", "-", "5", "=")
	if got := shown(c); got != "-2" {
		t.Fatalf("expected -2, got %q", got)
	}
	press(t, c, "+")
	press(t, c, "1", "=")
	if got := shown(c); got != "-1" {
		t.Fatalf("expected -1, got %q", got)
	}
	c = New()
	press(t, c, "1", "/", "4", "=")
	press(t, c, "-", "1", "=")
	if got := shown(c); got != "-0.75" {
		t.Fatalf("expected -0.75, got %q", got)
	}
}

func TestFractionalResultTruncates(t *testing.T) {
	c := New()
	press(t, c, "2", "/", "3", "=")
	if got := shown(c); got != "0.666666" {
		t.Fatalf("expected 0.666666, got %q", got)
	}
}

func TestEntryIsBounded(t *testing.T) {
	c := New()
	for i := 0; i < number.BufferSize; i++ {
		press(t, c, "9")
	}
	k := keysByLabel(t)["9"]
	if err := c.Press(k); !errors.Is(err, number.ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	if got := shown(c); len(got) != number.BufferSize {
		t.Fatalf("buffer changed on failed press: %q", got)
	}
}

func TestInvalidKeys(t *testing.T) {
	c := New()
	press(t, c, "4")
	if err := c.Press(keypad.Key{Label: "?", Action: keypad.Operator(99)}); !errors.Is(err, ErrUnknownOperator) {
		t.Fatalf("expected ErrUnknownOperator, got %v", err)
	}
	if err := c.Press(keypad.Key{Label: "x"}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if err := c.Press(keypad.Key{Label: "12", Action: keypad.Digit(12)}); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
	if got := shown(c); got != "4" {
		t.Fatalf("invalid keys must not change state, got %q", got)
	}
}

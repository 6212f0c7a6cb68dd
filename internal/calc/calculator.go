// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package calc is the chained, left-to-right calculator driven by key presses.
package calc

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/tilt_calculator/internal/keypad"
	"github.com/relabs-tech/tilt_calculator/internal/number"
)

// Mode controls what the next digit does.
type Mode int

const (
	// ModeNewOp: a result (or nothing) is shown; a digit starts over.
	ModeNewOp Mode = iota
	// ModeMidOp: an operator was just pressed; a digit replaces the display.
	ModeMidOp
	// ModeInput: digits append to the display.
	ModeInput
)

func (m Mode) String() string {
	switch m {
	case ModeNewOp:
		return "newop"
	case ModeMidOp:
		return "midop"
	case ModeInput:
		return "input"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

const (
	initialNumber   = "0"
	initialOperator = ""
)

var (
	// ErrUnknownOperator is returned for operator values outside the known set.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrInvalidKey is returned for digits outside 0-9 and keys with no action.
	ErrInvalidKey = errors.New("invalid key")
)

// Calculator holds the running state between key presses.
//
// The display number is the source of truth for the value being entered.
// While an operator is pending, acc is its left operand; after "=" it is the
// right operand just used, so pressing "=" again repeats the operation.
type Calculator struct {
	acc        float64
	pending    keypad.Operator
	hasPending bool
	mode       Mode

	op  number.Buffer
	num number.Buffer
}

// New returns a calculator showing "0" with no operator.
func New() *Calculator {
	return &Calculator{
		mode: ModeNewOp,
		op:   number.NewBuffer(initialOperator),
		num:  number.NewBuffer(initialNumber),
	}
}

// Press dispatches one key activation. On error the state is unchanged,
// except for overflowing results, which leave "0" on the display.
func (c *Calculator) Press(k keypad.Key) error {
	switch a := k.Action.(type) {
	case keypad.Digit:
		if a < 0 || a > 9 {
			return fmt.Errorf("digit %d: %w", int(a), ErrInvalidKey)
		}
		return c.digit(k.Label)
	case keypad.Operator:
		return c.operator(a, k.Label)
	default:
		return fmt.Errorf("key %q has no action: %w", k.Label, ErrInvalidKey)
	}
}

// Display returns the operator and number texts.
func (c *Calculator) Display() (op, num string) {
	return c.op.String(), c.num.String()
}

// Mode returns the current input mode.
func (c *Calculator) Mode() Mode { return c.mode }

// Accumulator returns the stored operand.
func (c *Calculator) Accumulator() float64 { return c.acc }

// Pending returns the operator waiting for its right operand, if any.
func (c *Calculator) Pending() (keypad.Operator, bool) { return c.pending, c.hasPending }

func (c *Calculator) digit(label string) error {
	c.beginEntry()
	// A zero display is replaced unless it ends in '.'; "0.0" then "5" gives "5".
	if c.num.Value() == 0 && c.num.Last() != '.' {
		return c.num.Set(label)
	}
	return c.num.Append(label)
}

// beginEntry moves NEWOP and MIDOP into INPUT with a fresh "0".
func (c *Calculator) beginEntry() {
	switch c.mode {
	case ModeNewOp:
		c.acc = 0
		c.hasPending = false
		c.op = number.NewBuffer(initialOperator)
		c.num = number.NewBuffer(initialNumber)
		c.mode = ModeInput
	case ModeMidOp:
		c.num = number.NewBuffer(initialNumber)
		c.mode = ModeInput
	}
}

func (c *Calculator) operator(op keypad.Operator, label string) error {
	switch op {
	case keypad.OpEquals:
		return c.equals()
	case keypad.OpAdd, keypad.OpSub, keypad.OpMul, keypad.OpDiv:
		if err := c.op.Set(label); err != nil {
			return err
		}
		c.pending = op
		c.hasPending = true
		c.acc = c.num.Value()
		c.mode = ModeMidOp
	case keypad.OpClear:
		// Clears the entry only; the pending operator and mode survive.
		c.op = number.NewBuffer(initialOperator)
		c.num = number.NewBuffer(initialNumber)
		c.acc = 0
	case keypad.OpBackspace:
		if c.num.Len() > 1 {
			c.num.TrimLast()
		} else {
			c.num = number.NewBuffer(initialNumber)
		}
		if c.num.String() == "-" {
			c.num = number.NewBuffer(initialNumber)
		}
	case keypad.OpDot:
		c.beginEntry()
		if !c.num.Contains('.') {
			if err := c.num.Append("."); err != nil {
				return err
			}
		}
		c.mode = ModeInput
	default:
		return fmt.Errorf("%v: %w", op, ErrUnknownOperator)
	}
	return nil
}

func (c *Calculator) equals() error {
	if !c.hasPending {
		return nil
	}
	left, right := c.acc, c.num.Value()
	if c.mode == ModeNewOp {
		// Repeating "=": the display holds the last result and acc the
		// last right operand.
		left, right = right, left
	}

	res := apply(c.pending, left, right)
	c.acc = right
	c.mode = ModeNewOp
	if err := c.num.SetValue(res); err != nil {
		return fmt.Errorf("result %s: %w", number.Format(res), err)
	}
	return nil
}

func apply(op keypad.Operator, left, right float64) float64 {
	switch op {
	case keypad.OpAdd:
		return left + right
	case keypad.OpSub:
		return left - right
	case keypad.OpMul:
		return left * right
	case keypad.OpDiv:
		if right == 0 {
			// No error indicator on the display; division by zero shows 0.
			return 0
		}
		return left / right
	}
	return 0
}

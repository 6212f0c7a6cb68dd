// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package keypad

import "fmt"

// Action is what a key does when activated: a Digit or an Operator.
// The set is closed; only this package implements it.
type Action interface {
	isAction()
}

// Digit enters a decimal digit 0-9.
type Digit int

// Operator is any non-digit key.
type Operator int

const (
	OpEquals Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpBackspace
	OpDot
	OpClear
)

var operatorNames = [...]string{"equals", "add", "subtract", "multiply", "divide", "backspace", "dot", "clear"}

func (Digit) isAction()    {}
func (Operator) isAction() {}

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool { return op >= OpEquals && op <= OpClear }

// Binary reports whether op takes a left and right operand.
func (op Operator) Binary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

func (op Operator) String() string {
	if !op.Valid() {
		return fmt.Sprintf("operator(%d)", int(op))
	}
	return operatorNames[op]
}

// Key is one laid-out grid cell. Keys are immutable once placed.
type Key struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Label  string `json:"label"`
	Action Action `json:"-"`
}

// Kind returns "number" or "operator", matching the label the display layer
// uses to style keys.
func (k Key) Kind() string {
	if _, ok := k.Action.(Digit); ok {
		return "number"
	}
	return "operator"
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package keypad holds the static grid of virtual keys the cursor moves over.
package keypad

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/tilt_calculator/internal/cursor"
)

const (
	// MaxKeys is the size of the key pool.
	MaxKeys = 32
	// MaxLabel is the longest label a key can carry, in bytes.
	MaxLabel = 4
	// DefaultColumns is the width of the standard calculator face.
	DefaultColumns = 6
)

// ErrLabelTooLong is returned when a label does not fit a key.
var ErrLabelTooLong = errors.New("key label too long")

// Grid lays keys out row-major, wrapping after cols columns.
type Grid struct {
	cols  int
	keys  *Arena[Key]
	index map[cursor.Cursor]Handle

	// layout cursor for the next Add
	row, col int
}

// NewGrid returns an empty grid with room for capacity keys.
func NewGrid(cols, capacity int) *Grid {
	if cols < 1 {
		cols = 1
	}
	return &Grid{
		cols:  cols,
		keys:  NewArena[Key](capacity),
		index: make(map[cursor.Cursor]Handle, capacity),
	}
}

// Add places the next key at the layout cursor.
func (g *Grid) Add(label string, action Action) (Handle, error) {
	if len(label) == 0 || len(label) > MaxLabel {
		return -1, fmt.Errorf("key %q: %w", label, ErrLabelTooLong)
	}
	k := Key{Row: g.row, Col: g.col, Label: label, Action: action}
	h, err := g.keys.Alloc(k)
	if err != nil {
		return -1, fmt.Errorf("key %q: %w", label, err)
	}
	g.index[cursor.Cursor{Row: k.Row, Col: k.Col}] = h

	g.col++
	if g.col >= g.cols {
		g.col = 0
		g.row++
	}
	return h, nil
}

// Resolve returns the key under c.
func (g *Grid) Resolve(c cursor.Cursor) (Key, bool) {
	h, ok := g.index[c]
	if !ok {
		return Key{}, false
	}
	return g.keys.Get(h)
}

// Key returns the key behind a handle.
func (g *Grid) Key(h Handle) (Key, bool) { return g.keys.Get(h) }

// Keys returns all keys in layout order.
func (g *Grid) Keys() []Key { return g.keys.All() }

// Bounds returns the extents covered by laid-out keys.
func (g *Grid) Bounds() cursor.Bounds {
	n := g.keys.Len()
	if n == 0 {
		return cursor.Bounds{}
	}
	maxCol := g.cols - 1
	if n < g.cols {
		maxCol = n - 1
	}
	return cursor.Bounds{MaxRow: (n - 1) / g.cols, MaxCol: maxCol}
}

// Columns returns the layout width.
func (g *Grid) Columns() int { return g.cols }

// KeySpec is one entry of a layout.
type KeySpec struct {
	Label  string
	Action Action
}

// DefaultLayout is the standard calculator face:
//
//	7 8 9 / * -
//	4 5 6 C <- +
//	1 2 3 0 . =
var DefaultLayout = []KeySpec{
	{"7", Digit(7)}, {"8", Digit(8)}, {"9", Digit(9)},
	{"/", OpDiv}, {"*", OpMul}, {"-", OpSub},

	{"4", Digit(4)}, {"5", Digit(5)}, {"6", Digit(6)},
	{"C", OpClear}, {"<-", OpBackspace}, {"+", OpAdd},

	{"1", Digit(1)}, {"2", Digit(2)}, {"3", Digit(3)},
	{"0", Digit(0)}, {".", OpDot}, {"=", OpEquals},
}

// Build lays out specs on a new grid. Any failure is fatal for the caller:
// a half-built keypad must not be presented.
func Build(cols int, specs []KeySpec) (*Grid, error) {
	g := NewGrid(cols, MaxKeys)
	for _, s := range specs {
		if _, err := g.Add(s.Label, s.Action); err != nil {
			return nil, fmt.Errorf("build keypad: %w", err)
		}
	}
	return g, nil
}

// DefaultGrid builds DefaultLayout with DefaultColumns columns.
func DefaultGrid() (*Grid, error) {
	return Build(DefaultColumns, DefaultLayout)
}

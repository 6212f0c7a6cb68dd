// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cursor moves a selection over the key grid from tilt zones.
package cursor

import "github.com/relabs-tech/tilt_calculator/internal/gesture"

// Cursor is a position on the key grid.
type Cursor struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Bounds are the inclusive grid extents, starting at (0,0).
type Bounds struct {
	MaxRow int
	MaxCol int
}

// Contains reports whether c lies inside b.
func (b Bounds) Contains(c Cursor) bool {
	return c.Row >= 0 && c.Row <= b.MaxRow && c.Col >= 0 && c.Col <= b.MaxCol
}

// Step applies the zone's delta to c. Each axis is clamped on its own, so a
// diagonal against one edge still slides along the other. The neutral zone,
// or a move blocked on both axes, returns c unchanged.
func Step(z gesture.Zone, c Cursor, b Bounds) Cursor {
	dRow, dCol := z.Delta()
	next := Cursor{Row: c.Row + dRow, Col: c.Col + dCol}
	if next.Row < 0 || next.Row > b.MaxRow {
		next.Row = c.Row
	}
	if next.Col < 0 || next.Col > b.MaxCol {
		next.Col = c.Col
	}
	return next
}

// Debouncer limits how often moves are applied. Times are batch timestamps
// in milliseconds; comparisons are done in uint32 so they survive wraparound.
type Debouncer struct {
	Interval uint32

	last    uint32
	started bool
}

// Allow reports whether a move at ts may be applied.
// An Interval of 0 never gates.
func (d *Debouncer) Allow(ts uint32) bool {
	if d.Interval == 0 || !d.started {
		return true
	}
	return ts-d.last > d.Interval
}

// Mark records ts as the time of the last applied move.
func (d *Debouncer) Mark(ts uint32) {
	d.last = ts
	d.started = true
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package engine ties the tilt pipeline to the calculator.
//
// Sample batches flow through two smoothed vectors, the classifier and the
// cursor mapper; activations resolve the cursor to a key and feed the
// calculator. The engine is not synchronised: every call must come from one
// goroutine (see app.Loop), and each call runs to completion.
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/relabs-tech/tilt_calculator/internal/calc"
	"github.com/relabs-tech/tilt_calculator/internal/cursor"
	"github.com/relabs-tech/tilt_calculator/internal/gesture"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
	"github.com/relabs-tech/tilt_calculator/internal/keypad"
	"github.com/relabs-tech/tilt_calculator/internal/smoothing"
)

var (
	// ErrClosed is returned once Teardown has been called.
	ErrClosed = errors.New("engine is torn down")
	// ErrNoKey means the cursor sits where no key was laid out.
	ErrNoKey = errors.New("no key under cursor")
)

// Settings are the startup options of the engine.
type Settings struct {
	WindowFast int // samples in the fast (reacting) average
	WindowSlow int // samples in the slow (baseline) average
	ThresholdX int // milli-G
	ThresholdY int // milli-G
	InvertY    bool
	Debounce   uint32 // ms between cursor moves, 0 disables

	Columns int
	Layout  []keypad.KeySpec

	LogBatches bool
}

// DefaultSettings returns the tuning used on the watch: 4/64 sample windows,
// 75 mG thresholds and no debounce.
func DefaultSettings() Settings {
	return Settings{
		WindowFast: 4,
		WindowSlow: 64,
		ThresholdX: gesture.DefaultThresholdX,
		ThresholdY: gesture.DefaultThresholdY,
		Columns:    keypad.DefaultColumns,
		Layout:     keypad.DefaultLayout,
	}
}

// Listener receives the engine's output events.
type Listener interface {
	CursorChanged(row, col int)
	DisplayChanged(op, num string)
}

// NopListener discards all events.
type NopListener struct{}

func (NopListener) CursorChanged(int, int)        {}
func (NopListener) DisplayChanged(string, string) {}

// Diagnostics describes the last processed batch.
type Diagnostics struct {
	Diff     imu.Vec3      `json:"diff"`
	Zone     gesture.Zone  `json:"zone"`
	Cursor   cursor.Cursor `json:"cursor"`
	ScanTime time.Duration `json:"scan_time_ns"`
	Batches  uint64        `json:"batches"`
}

// Engine is the motion-driven calculator core.
type Engine struct {
	fast *smoothing.Vector3
	slow *smoothing.Vector3
	cls  *gesture.Classifier
	deb  cursor.Debouncer

	grid   *keypad.Grid
	bounds cursor.Bounds
	cur    cursor.Cursor

	calc *calc.Calculator
	out  Listener

	closed     bool
	logBatches bool
	diag       Diagnostics
}

// Initialize builds the key grid, filters and calculator, then reports the
// initial cursor and display. A grid that cannot be built is fatal.
func Initialize(s Settings, out Listener) (*Engine, error) {
	if out == nil {
		out = NopListener{}
	}
	if s.Columns == 0 {
		s.Columns = keypad.DefaultColumns
	}
	if s.Layout == nil {
		s.Layout = keypad.DefaultLayout
	}

	grid, err := keypad.Build(s.Columns, s.Layout)
	if err != nil {
		return nil, fmt.Errorf("engine init: %w", err)
	}
	if len(grid.Keys()) == 0 {
		return nil, fmt.Errorf("engine init: empty key layout")
	}

	e := &Engine{
		fast:       smoothing.NewVector3(s.WindowFast),
		slow:       smoothing.NewVector3(s.WindowSlow),
		cls:        gesture.NewClassifier(gesture.Thresholds{X: s.ThresholdX, Y: s.ThresholdY, InvertY: s.InvertY}),
		deb:        cursor.Debouncer{Interval: s.Debounce},
		grid:       grid,
		bounds:     grid.Bounds(),
		calc:       calc.New(),
		out:        out,
		logBatches: s.LogBatches,
	}
	e.diag.Zone = gesture.ZoneNeutral

	e.out.CursorChanged(e.cur.Row, e.cur.Col)
	op, num := e.calc.Display()
	e.out.DisplayChanged(op, num)
	return e, nil
}

// OnSampleBatch feeds one batch through both averages, classifies the tilt
// and moves the cursor. CursorChanged fires only when the position changes.
func (e *Engine) OnSampleBatch(b imu.Batch) error {
	if e.closed {
		return ErrClosed
	}
	if len(b.Samples) == 0 {
		return nil
	}
	start := time.Now()

	e.slow.UpdateBatch(b.Samples)
	e.fast.UpdateBatch(b.Samples)
	zone := e.cls.Classify(e.fast.Value(), e.slow.Value())

	if zone != gesture.ZoneNeutral && e.deb.Allow(b.Timestamp) {
		next := cursor.Step(zone, e.cur, e.bounds)
		if next != e.cur {
			e.cur = next
			e.deb.Mark(b.Timestamp)
			e.out.CursorChanged(next.Row, next.Col)
		}
	}

	e.diag = Diagnostics{
		Diff:     e.cls.Diff(),
		Zone:     zone,
		Cursor:   e.cur,
		ScanTime: time.Since(start),
		Batches:  e.diag.Batches + 1,
	}
	if e.logBatches {
		d := e.diag.Diff
		log.Printf("engine: x%d y%d z%d tilt %d (%v) cursor=(%d,%d) scan=%s",
			d.X, d.Y, d.Z, int(zone), zone, e.cur.Row, e.cur.Col, e.diag.ScanTime)
	}
	return nil
}

// OnActivate presses the key under the cursor. Lookup failures and invalid
// keys are logged and leave the state unchanged.
func (e *Engine) OnActivate() error {
	if e.closed {
		return ErrClosed
	}
	key, ok := e.grid.Resolve(e.cur)
	if !ok {
		log.Printf("engine: unable to resolve key at (%d,%d)", e.cur.Row, e.cur.Col)
		return fmt.Errorf("cursor (%d,%d): %w", e.cur.Row, e.cur.Col, ErrNoKey)
	}

	err := e.calc.Press(key)
	switch {
	case err == nil:
	case errors.Is(err, calc.ErrUnknownOperator), errors.Is(err, calc.ErrInvalidKey):
		log.Printf("engine: key %q has an invalid value: %v", key.Label, err)
		return err
	default:
		// Full buffers and overflowing results still change what is shown.
		log.Printf("engine: key %q: %v", key.Label, err)
	}

	op, num := e.calc.Display()
	e.out.DisplayChanged(op, num)
	return err
}

// Teardown stops accepting batches and activations. Safe to call twice.
func (e *Engine) Teardown() {
	if e.closed {
		return
	}
	e.closed = true
	log.Println("engine: torn down")
}

// Closed reports whether Teardown was called.
func (e *Engine) Closed() bool { return e.closed }

// Cursor returns the current cursor.
func (e *Engine) Cursor() cursor.Cursor { return e.cur }

// Zone returns the last classified zone.
func (e *Engine) Zone() gesture.Zone { return e.cls.Zone() }

// Display returns the calculator's operator and number texts.
func (e *Engine) Display() (op, num string) { return e.calc.Display() }

// Grid returns the key grid.
func (e *Engine) Grid() *keypad.Grid { return e.grid }

// Diagnostics returns details of the last batch.
func (e *Engine) Diagnostics() Diagnostics { return e.diag }

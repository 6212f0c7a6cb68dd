// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"log"

	"github.com/relabs-tech/tilt_calculator/internal/engine"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
)

// ErrLoopStopped is returned once the event loop has exited.
var ErrLoopStopped = errors.New("event loop stopped")

// State is a snapshot of the calculator taken on the loop goroutine.
type State struct {
	Row         int                `json:"row"`
	Col         int                `json:"col"`
	Key         string             `json:"key"`
	Op          string             `json:"op"`
	Num         string             `json:"num"`
	Diagnostics engine.Diagnostics `json:"diagnostics"`
}

type eventKind int

const (
	eventBatch eventKind = iota
	eventActivate
	eventQuery
)

type event struct {
	kind  eventKind
	batch imu.Batch
	query func(*engine.Engine)
}

// Loop owns an engine and runs every call on it from a single goroutine.
// MQTT callbacks, websocket readers and sample sources hand their events to
// the loop; events run to completion one at a time, in arrival order.
type Loop struct {
	eng    *engine.Engine
	events chan event
	done   chan struct{}

	// OnBatch, when set, is called on the loop goroutine after each batch.
	OnBatch func(engine.Diagnostics)
}

// NewLoop wraps eng. Run must be called for events to be processed.
func NewLoop(eng *engine.Engine) *Loop {
	return &Loop{
		eng:    eng,
		events: make(chan event, 16),
		done:   make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then tears the engine down.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.eng.Teardown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-l.events:
			if err := l.handle(ev); errors.Is(err, engine.ErrClosed) {
				return err
			}
		}
	}
}

func (l *Loop) handle(ev event) error {
	switch ev.kind {
	case eventBatch:
		if err := l.eng.OnSampleBatch(ev.batch); err != nil {
			log.Printf("loop: batch: %v", err)
			return err
		}
		if l.OnBatch != nil {
			l.OnBatch(l.eng.Diagnostics())
		}
	case eventActivate:
		// The engine logs activation failures itself.
		return l.eng.OnActivate()
	case eventQuery:
		ev.query(l.eng)
	}
	return nil
}

func (l *Loop) send(ev event) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// SubmitBatch queues a batch for processing.
func (l *Loop) SubmitBatch(b imu.Batch) error {
	return l.send(event{kind: eventBatch, batch: b})
}

// Activate queues a key press at the current cursor.
func (l *Loop) Activate() error {
	return l.send(event{kind: eventActivate})
}

// State returns a snapshot of the engine once every event queued before
// the call has been processed.
func (l *Loop) State() (State, error) {
	ch := make(chan State, 1)
	q := func(e *engine.Engine) {
		c := e.Cursor()
		op, num := e.Display()
		s := State{Row: c.Row, Col: c.Col, Op: op, Num: num, Diagnostics: e.Diagnostics()}
		if k, ok := e.Grid().Resolve(c); ok {
			s.Key = k.Label
		}
		ch <- s
	}
	if err := l.send(event{kind: eventQuery, query: q}); err != nil {
		return State{}, err
	}
	select {
	case s := <-ch:
		return s, nil
	case <-l.done:
		return State{}, ErrLoopStopped
	}
}

// Pump reads batches from src and submits them to the loop until ctx is
// cancelled, the source fails or the loop stops.
func (l *Loop) Pump(ctx context.Context, src imu.BatchSource) error {
	for ctx.Err() == nil {
		b, err := src.NextBatch()
		if err != nil {
			return err
		}
		if err := l.SubmitBatch(b); err != nil {
			return err
		}
	}
	return nil
}

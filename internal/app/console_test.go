// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/cursor"
)

func newTestConsole(t *testing.T) *consoleModel {
	t.Helper()
	m, err := newConsoleModel(config.Default())
	if err != nil {
		t.Fatalf("new console: %v", err)
	}
	return m
}

func (m *consoleModel) send(msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func tick() tea.Msg { return tickMsg(time.Time{}) }

func TestConsoleArrowMovesOneStep(t *testing.T) {
	m := newTestConsole(t)
	if m.cur != (cursor.Cursor{}) || m.num != "0" {
		t.Fatalf("unexpected initial state %+v", m.cur)
	}

	m.send(tea.KeyMsg{Type: tea.KeyRight}, tick(), tick(), tick())
	if m.cur != (cursor.Cursor{Row: 0, Col: 1}) {
		t.Fatalf("expected one step right, got %+v", m.cur)
	}

	m.send(tea.KeyMsg{Type: tea.KeyDown}, tick())
	if m.cur != (cursor.Cursor{Row: 1, Col: 1}) {
		t.Fatalf("expected one step down, got %+v", m.cur)
	}

	m.send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.num != "5" {
		t.Fatalf("expected 5 on the display, got %q", m.num)
	}
	if view := m.View(); !strings.Contains(view, "5") || !strings.Contains(view, "<-") {
		t.Fatalf("view misses display or keys:\n%s", view)
	}
}

func TestConsoleQuitTearsDown(t *testing.T) {
	m := newTestConsole(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if !m.eng.Closed() {
		t.Fatalf("expected engine torn down")
	}
	m.send(tea.KeyMsg{Type: tea.KeyEnter})
	if m.status == "" {
		t.Fatalf("expected activation error after teardown")
	}
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/cursor"
	"github.com/relabs-tech/tilt_calculator/internal/engine"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
)

const consoleLog = "tilt_console.log"

var (
	displayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6E6E6E")).
			Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Width(5).Align(lipgloss.Center).Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle = keyStyle.Copy().Background(lipgloss.Color("#C89A3A")).Foreground(lipgloss.Color("#000000")).Bold(true)
	opStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type tickMsg time.Time

// consoleModel drives the engine from the keyboard: arrow keys tilt the
// virtual device for one batch, enter presses the key under the cursor.
// Bubble Tea calls Update from one goroutine, which serialises the engine.
type consoleModel struct {
	eng      *engine.Engine
	interval time.Duration
	perBatch int
	flick    int

	tilt imu.Sample
	ts   uint32

	cur     cursor.Cursor
	op, num string
	status  string
}

func newConsoleModel(cfg *config.Config) (*consoleModel, error) {
	m := &consoleModel{
		interval: time.Duration(cfg.BatchInterval()) * time.Millisecond,
		perBatch: cfg.SamplesPerBatch,
		flick:    3 * max(cfg.ThreshTiltX, cfg.ThreshTiltY, 34),
		num:      "0",
	}
	eng, err := engine.Initialize(EngineSettings(cfg), m)
	if err != nil {
		return nil, err
	}
	m.eng = eng

	// Fill the slow window so the first flick is measured against level.
	for i := 0; i*m.perBatch < cfg.WindowSlow; i++ {
		m.feed()
	}
	return m, nil
}

func (m *consoleModel) CursorChanged(row, col int) {
	m.cur = cursor.Cursor{Row: row, Col: col}
}

func (m *consoleModel) DisplayChanged(op, num string) {
	m.op, m.num = op, num
}

// feed sends one batch at the pending tilt, then levels out.
func (m *consoleModel) feed() {
	m.ts += uint32(m.interval / time.Millisecond)
	s := m.tilt
	s.Z = -1000
	b := imu.Batch{Source: config.SourceMock, Timestamp: m.ts, Samples: make([]imu.Sample, m.perBatch)}
	for i := range b.Samples {
		b.Samples[i] = s
	}
	m.tilt = imu.Sample{}
	if err := m.eng.OnSampleBatch(b); err != nil {
		m.status = err.Error()
	}
}

func (m *consoleModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m *consoleModel) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.feed()
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.eng.Teardown()
			return m, tea.Quit
		case "up", "k":
			m.tilt.Y -= m.flick
		case "down", "j":
			m.tilt.Y += m.flick
		case "left", "h":
			m.tilt.X -= m.flick
		case "right", "l":
			m.tilt.X += m.flick
		case "enter", " ":
			m.status = ""
			if err := m.eng.OnActivate(); err != nil {
				m.status = err.Error()
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *consoleModel) View() string {
	var b strings.Builder

	width := m.eng.Grid().Columns() * keyStyle.GetWidth()
	numWidth := max(width-lipgloss.Width(m.op)-1, 1)
	line := opStyle.Render(m.op) + " " + lipgloss.NewStyle().Width(numWidth).Align(lipgloss.Right).Render(m.num)
	b.WriteString(displayStyle.Render(line))
	b.WriteString("\n")

	bounds := m.eng.Grid().Bounds()
	for row := 0; row <= bounds.MaxRow; row++ {
		cells := make([]string, 0, bounds.MaxCol+1)
		for col := 0; col <= bounds.MaxCol; col++ {
			c := cursor.Cursor{Row: row, Col: col}
			label := ""
			if k, ok := m.eng.Grid().Resolve(c); ok {
				label = k.Label
			}
			if c == m.cur {
				cells = append(cells, cursorStyle.Render(label))
			} else {
				cells = append(cells, keyStyle.Render(label))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	d := m.eng.Diagnostics()
	b.WriteString(footerStyle.Render(fmt.Sprintf("tilt %d (%v)  diff x%d y%d  scan %s",
		int(d.Zone), d.Zone, d.Diff.X, d.Diff.Y, d.ScanTime)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(errStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("arrows/hjkl tilt · enter press · q quit"))
	return b.String()
}

// RunConsole runs the calculator in the terminal with the keyboard standing
// in for the accelerometer. Logs go to tilt_console.log.
func RunConsole(cfg *config.Config) error {
	f, err := tea.LogToFile(consoleLog, "console: ")
	if err != nil {
		return fmt.Errorf("open %s: %w", consoleLog, err)
	}
	defer f.Close()

	m, err := newConsoleModel(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

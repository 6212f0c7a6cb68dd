// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/cursor"
	"github.com/relabs-tech/tilt_calculator/internal/keypad"
)

const (
	screenWidth   = 128
	screenHeight  = 64
	refreshPeriod = 100 * time.Millisecond
)

// screen is what the OLED shows.
type screen struct {
	op, num  string
	key      string
	row, col int
}

// OLEDSink draws the calculator on an SSD1306 display. Events only update
// the screen contents; Run pushes them to the panel at a fixed rate.
type OLEDSink struct {
	mu    sync.Mutex
	cur   screen
	dirty bool

	grid *keypad.Grid
	bus  i2c.BusCloser
	dev  *ssd1306.Dev
}

// addrBus sends every transaction to a fixed address, so panels strapped to
// 0x3D work with the driver's default of 0x3C.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

// NewOLEDSink opens the I2C bus and initializes the display.
func NewOLEDSink(cfg *config.Config, grid *keypad.Grid) (*OLEDSink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus: %w", err)
	}

	dev, err := ssd1306.NewI2C(addrBus{Bus: bus, addr: cfg.DisplayI2CAddr}, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	s := &OLEDSink{grid: grid, bus: bus, dev: dev, dirty: true}
	s.cur.num = "0"
	s.cur.key = s.keyAt(0, 0)
	return s, nil
}

func (s *OLEDSink) keyAt(row, col int) string {
	if s.grid == nil {
		return ""
	}
	if k, ok := s.grid.Resolve(cursor.Cursor{Row: row, Col: col}); ok {
		return k.Label
	}
	return ""
}

func (s *OLEDSink) CursorChanged(row, col int) {
	key := s.keyAt(row, col)
	s.mu.Lock()
	s.cur.row, s.cur.col, s.cur.key = row, col, key
	s.dirty = true
	s.mu.Unlock()
}

func (s *OLEDSink) DisplayChanged(op, num string) {
	s.mu.Lock()
	s.cur.op, s.cur.num = op, num
	s.dirty = true
	s.mu.Unlock()
}

// Run redraws the panel whenever the screen changed, until ctx is done.
func (s *OLEDSink) Run(ctx context.Context) error {
	defer s.bus.Close()
	defer s.dev.Halt()

	ticker := time.NewTicker(refreshPeriod)
	defer ticker.Stop()

	log.Println("display: starting update loop")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		s.mu.Lock()
		snapshot, dirty := s.cur, s.dirty
		s.dirty = false
		s.mu.Unlock()
		if !dirty {
			continue
		}

		img := renderScreen(snapshot)
		if err := s.dev.Draw(s.dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}
}

// renderScreen lays out the operator on the left, the number right aligned
// on the first line and the key under the cursor below.
func renderScreen(sc screen) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, screenWidth, screenHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}

	drawer.Dot = fixed.P(0, 13)
	drawer.DrawString(sc.op)

	w := drawer.MeasureString(sc.num).Ceil()
	drawer.Dot = fixed.P(screenWidth-w, 13)
	drawer.DrawString(sc.num)

	drawer.Dot = fixed.P(0, 39)
	drawer.DrawString(fmt.Sprintf("key [%s]", sc.key))
	drawer.Dot = fixed.P(0, 52)
	drawer.DrawString(fmt.Sprintf("row %d col %d", sc.row, sc.col))
	return img
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gesture

import "fmt"

// Zone is a numpad-style direction:
//
//	7 8 9
//	4 5 6
//	1 2 3
//
// 5 is neutral. Row -1 is "up" on the key grid, column -1 is "left".
type Zone int

const (
	ZoneDownLeft  Zone = 1
	ZoneDown      Zone = 2
	ZoneDownRight Zone = 3
	ZoneLeft      Zone = 4
	ZoneNeutral   Zone = 5
	ZoneRight     Zone = 6
	ZoneUpLeft    Zone = 7
	ZoneUp        Zone = 8
	ZoneUpRight   Zone = 9
)

var zoneNames = [...]string{"", "down-left", "down", "down-right", "left", "neutral", "right", "up-left", "up", "up-right"}

// Valid reports whether z is one of the nine zones.
func (z Zone) Valid() bool { return z >= ZoneDownLeft && z <= ZoneUpRight }

// Delta returns the grid step for the zone, each component in {-1, 0, 1}.
// Invalid zones do not move.
func (z Zone) Delta() (dRow, dCol int) {
	if !z.Valid() {
		return 0, 0
	}
	switch {
	case z >= ZoneUpLeft:
		dRow = -1
	case z <= ZoneDownRight:
		dRow = 1
	}
	switch z {
	case ZoneDownLeft, ZoneLeft, ZoneUpLeft:
		dCol = -1
	case ZoneDownRight, ZoneRight, ZoneUpRight:
		dCol = 1
	}
	return dRow, dCol
}

// Mirror returns the zone pointing the opposite way (1<->9, 2<->8, 3<->7, 4<->6).
func (z Zone) Mirror() Zone {
	if !z.Valid() {
		return z
	}
	return 10 - z
}

func (z Zone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("zone(%d)", int(z))
	}
	return zoneNames[z]
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package gesture turns the difference between a fast and a slow smoothed
// accelerometer vector into a discrete tilt zone.
package gesture

import "github.com/relabs-tech/tilt_calculator/internal/imu"

// Default thresholds in milli-G. 75 is enough to nudge the cursor with a
// small flick of the wrist at 50 Hz, 4 samples per batch.
const (
	DefaultThresholdX = 75
	DefaultThresholdY = 75
)

// Thresholds configures the classifier.
type Thresholds struct {
	X int
	Y int
	// InvertY makes positive y differences move up instead of down.
	InvertY bool
}

// Classifier holds the last difference vector and its zone.
type Classifier struct {
	th   Thresholds
	diff imu.Vec3
	zone Zone
}

// NewClassifier returns a classifier in the neutral zone.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{th: th, zone: ZoneNeutral}
}

// Classify computes diff = fast - slow and maps it to a zone.
// Both axes exceeding their thresholds wins over either one alone.
func (c *Classifier) Classify(fast, slow imu.Vec3) Zone {
	c.diff = fast.Sub(slow)
	c.zone = c.ClassifyDiff(c.diff)
	return c.zone
}

// ClassifyDiff maps a difference vector to a zone without touching state.
func (c *Classifier) ClassifyDiff(d imu.Vec3) Zone {
	dy := d.Y
	if c.th.InvertY {
		dy = -dy
	}
	overX := abs(d.X) > c.th.X
	overY := abs(dy) > c.th.Y

	switch {
	case overX && overY:
		if d.X < 0 {
			if dy < 0 {
				return ZoneUpLeft
			}
			return ZoneDownLeft
		}
		if dy < 0 {
			return ZoneUpRight
		}
		return ZoneDownRight
	case overX:
		if d.X < 0 {
			return ZoneLeft
		}
		return ZoneRight
	case overY:
		if dy < 0 {
			return ZoneUp
		}
		return ZoneDown
	default:
		return ZoneNeutral
	}
}

// Diff returns the difference vector from the last Classify call.
func (c *Classifier) Diff() imu.Vec3 { return c.diff }

// Zone returns the zone from the last Classify call.
func (c *Classifier) Zone() Zone { return c.zone }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

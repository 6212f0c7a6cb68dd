// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package imu

// Sample represents a single accelerometer reading in milli-G.
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Batch is one delivery of consecutive samples from a source.
// Timestamp is in milliseconds and is allowed to wrap around.
type Batch struct {
	Source    string   `json:"source"` // "imu", "serial" or "mock"
	Timestamp uint32   `json:"ts"`     // time of the last sample in the batch
	Samples   []Sample `json:"samples"`
}

// Vec3 is a per-axis integer vector (smoothed means, differences).
type Vec3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Sub returns v - o per axis.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// BatchSource is anything that can provide sample batches over time:
// the MPU9250 reader, the serial bridge, the mock generator.
type BatchSource interface {
	NextBatch() (Batch, error)
	Close() error
}

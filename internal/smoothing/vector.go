// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package smoothing

import "github.com/relabs-tech/tilt_calculator/internal/imu"

// Vector3 holds one Smoother per accelerometer axis. All three share a
// window size and are always updated from the same batch.
type Vector3 struct {
	x, y, z Smoother
}

// NewVector3 returns a configured, empty vector.
func NewVector3(size int) *Vector3 {
	v := &Vector3{}
	v.Configure(size)
	return v
}

// Configure clamps size to MaxWindow and resets all axes to empty.
func (v *Vector3) Configure(size int) {
	v.x.Reset(size)
	v.y.Reset(size)
	v.z.Reset(size)
}

// UpdateBatch feeds every sample of the batch, in arrival order.
func (v *Vector3) UpdateBatch(samples []imu.Sample) {
	for _, s := range samples {
		v.x.Update(s.X)
		v.y.Update(s.Y)
		v.z.Update(s.Z)
	}
}

// Value returns the current per-axis means.
func (v *Vector3) Value() imu.Vec3 {
	return imu.Vec3{X: v.x.Value(), Y: v.y.Value(), Z: v.z.Value()}
}

// Size returns the shared window size.
func (v *Vector3) Size() int { return v.x.Size() }

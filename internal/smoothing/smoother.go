// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package smoothing provides fixed-capacity moving averages over integer
// sample streams. Nothing in this package allocates after construction.
package smoothing

// MaxWindow is the largest window any Smoother can hold.
const MaxWindow = 128

// Smoother is a circular-buffer moving average.
//
// sum always equals the sum of the count most recent values in ring;
// count saturates at size and never decreases once saturated.
type Smoother struct {
	size  int
	count int
	pos   int
	ring  [MaxWindow]int
	sum   int
}

// NewSmoother returns an empty smoother with the given window size,
// clamped to [1, MaxWindow].
func NewSmoother(size int) Smoother {
	var s Smoother
	s.Reset(size)
	return s
}

// Reset empties the smoother and sets a new window size.
func (s *Smoother) Reset(size int) {
	if size > MaxWindow {
		size = MaxWindow
	}
	if size < 1 {
		size = 1
	}
	*s = Smoother{size: size}
}

// Update pushes one sample, evicting the oldest once the window is full.
func (s *Smoother) Update(sample int) {
	if s.size == 0 {
		s.Reset(1)
	}
	s.sum -= s.ring[s.pos]
	s.ring[s.pos] = sample
	s.sum += sample
	s.pos = (s.pos + 1) % s.size
	if s.count < s.size {
		s.count++
	}
}

// Value returns the truncated mean of the buffered samples, or 0 when empty.
func (s *Smoother) Value() int {
	if s.count == 0 {
		return 0
	}
	return s.sum / s.count
}

// Count returns how many samples are currently averaged.
func (s *Smoother) Count() int { return s.count }

// Size returns the configured window size.
func (s *Smoother) Size() int { return s.size }

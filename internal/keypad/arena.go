// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package keypad

import "errors"

// ErrArenaFull is returned when a fixed-capacity arena has no free slot.
var ErrArenaFull = errors.New("arena is full")

// Handle is a stable index into an Arena.
type Handle int

// Arena is a fixed-capacity pool with a monotonically increasing cursor.
// Storage is allocated once; handles stay valid for the arena's lifetime.
type Arena[T any] struct {
	items []T
	n     int
}

// NewArena allocates an arena able to hold capacity items.
func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{items: make([]T, capacity)}
}

// Alloc stores v and returns its handle.
func (a *Arena[T]) Alloc(v T) (Handle, error) {
	if a.n >= len(a.items) {
		return -1, ErrArenaFull
	}
	a.items[a.n] = v
	h := Handle(a.n)
	a.n++
	return h, nil
}

// Get returns the item behind h. ok is false for handles never allocated.
func (a *Arena[T]) Get(h Handle) (v T, ok bool) {
	if h < 0 || int(h) >= a.n {
		return v, false
	}
	return a.items[h], true
}

// Len returns the number of allocated items.
func (a *Arena[T]) Len() int { return a.n }

// Cap returns the arena capacity.
func (a *Arena[T]) Cap() int { return len(a.items) }

// All returns the allocated items in allocation order. The slice aliases
// the arena storage and must not be modified.
func (a *Arena[T]) All() []T { return a.items[:a.n] }

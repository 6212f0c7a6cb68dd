// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package number

import (
	"errors"
	"strings"
)

// BufferSize is the capacity of a display buffer in bytes.
const BufferSize = 16

var (
	// ErrBufferFull is returned when text does not fit a Buffer.
	ErrBufferFull = errors.New("display buffer full")
	// ErrOverflow is returned when a value's integer part cannot be displayed.
	ErrOverflow = errors.New("value too large to display")
)

// Buffer is a fixed-capacity display string. Failed writes leave it unchanged.
type Buffer struct {
	b [BufferSize]byte
	n int
}

// NewBuffer returns a buffer holding s, truncated to capacity.
func NewBuffer(s string) Buffer {
	var b Buffer
	b.n = copy(b.b[:], s)
	return b
}

// Set replaces the contents with s.
func (b *Buffer) Set(s string) error {
	if len(s) > BufferSize {
		return ErrBufferFull
	}
	b.n = copy(b.b[:], s)
	return nil
}

// Append adds s to the end.
func (b *Buffer) Append(s string) error {
	if b.n+len(s) > BufferSize {
		return ErrBufferFull
	}
	b.n += copy(b.b[b.n:], s)
	return nil
}

// TrimLast drops the last byte, if any.
func (b *Buffer) TrimLast() {
	if b.n > 0 {
		b.n--
	}
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int { return b.n }

// Last returns the final byte, or 0 when empty.
func (b *Buffer) Last() byte {
	if b.n == 0 {
		return 0
	}
	return b.b[b.n-1]
}

// Contains reports whether c occurs in the buffer.
func (b *Buffer) Contains(c byte) bool {
	for _, x := range b.b[:b.n] {
		if x == c {
			return true
		}
	}
	return false
}

func (b *Buffer) String() string { return string(b.b[:b.n]) }

// Value parses the buffer as a number.
func (b *Buffer) Value() float64 { return Parse(string(b.b[:b.n])) }

// SetValue formats v into the buffer. Decimals that do not fit are cut
// (truncation, like Format itself). If the integer part alone does not fit,
// the buffer is set to "0" and ErrOverflow is returned.
func (b *Buffer) SetValue(v float64) error {
	s := Format(v)
	if len(s) > BufferSize {
		dot := strings.IndexByte(s, '.')
		switch {
		case dot < 0 || dot > BufferSize:
			b.n = copy(b.b[:], "0")
			return ErrOverflow
		case dot >= BufferSize-1:
			s = s[:dot]
		default:
			s = strings.TrimSuffix(strings.TrimRight(s[:BufferSize], "0"), ".")
		}
	}
	return b.Set(s)
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package number converts between calculator display strings and values
// using only integer and string arithmetic. No float-to-text routine is used:
// the integer part goes through strconv.FormatInt and the fraction is scaled
// to an integer before printing.
package number

import (
	"math"
	"strconv"
	"strings"
)

// FractionDigits is the maximum number of decimals Format prints.
const FractionDigits = 6

// maxFractionDigits keeps 10^n exact and the scaled fraction inside int64.
const maxFractionDigits = 9

// A scaled fraction within noiseULPs units in the last place of the value
// of an integer is taken to be that integer.
const noiseULPs = 4

// significantDigits is how many decimal digits a float64 holds reliably.
// Decimals past that are not printed.
const significantDigits = 15

// maxMantissaDigits keeps the digit accumulator inside int64.
const maxMantissaDigits = 18

// Pow10 returns 10^n for n >= 0, iteratively.
func Pow10(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 10
	}
	return r
}

// Parse reads a display string such as "-12.05". A leading '-' negates.
// The buffer is machine-maintained; bytes other than digits, '-' and the
// first '.' are ignored. All digits are gathered into one integer and
// divided once, so the result is the float64 nearest to the decimal.
func Parse(s string) float64 {
	dot := strings.IndexByte(s, '.')

	var mant int64
	var digits, fracDigits, dropped int
	neg := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		inFrac := dot >= 0 && i > dot
		if c == '-' && !inFrac {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			continue
		}
		if digits >= maxMantissaDigits {
			if !inFrac {
				dropped++
			}
			continue
		}
		if mant > 0 || c != '0' {
			digits++
		}
		mant = mant*10 + int64(c-'0')
		if inFrac {
			fracDigits++
		}
	}

	val := float64(mant)
	if fracDigits > 0 {
		val /= Pow10(fracDigits)
	}
	if dropped > 0 {
		val *= Pow10(dropped)
	}
	if neg {
		val = -val
	}
	return val
}

// Format prints v with at most FractionDigits decimals.
func Format(v float64) string {
	return FormatDigits(v, FractionDigits)
}

// FormatDigits prints v with at most digits decimals. Extra decimals are
// truncated, not rounded; trailing zeros and a bare "." are dropped.
// Decimals beyond 15 significant digits are not printed.
// Magnitudes beyond int64 saturate.
func FormatDigits(v float64, digits int) string {
	if math.IsNaN(v) {
		return "0"
	}
	if digits < 0 {
		digits = 0
	}
	if digits > maxFractionDigits {
		digits = maxFractionDigits
	}

	neg := v < 0
	if neg {
		v = -v
	}
	if v >= math.MaxInt64 {
		return sign(neg) + strconv.FormatInt(math.MaxInt64, 10)
	}

	ip := int64(v)
	if ip > 0 {
		if room := significantDigits - len(strconv.FormatInt(ip, 10)); room < digits {
			digits = max(room, 0)
		}
	}
	scale := Pow10(digits)
	frac := (v - float64(ip)) * scale

	// 2.3 parses to 2.2999999999999998; without this it prints as 2.299999.
	ulp := math.Nextafter(v, math.Inf(1)) - v
	if r := math.Floor(frac + 0.5); math.Abs(r-frac) <= noiseULPs*ulp*scale {
		frac = r
	}
	fi := int64(frac)
	if fi >= int64(scale) {
		ip++
		fi -= int64(scale)
	}

	var sb strings.Builder
	if neg && (ip != 0 || fi != 0) {
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatInt(ip, 10))
	if fi == 0 {
		return sb.String()
	}

	fs := strconv.FormatInt(fi, 10)
	fs = strings.Repeat("0", digits-len(fs)) + fs
	fs = strings.TrimRight(fs, "0")
	sb.WriteByte('.')
	sb.WriteString(fs)
	return sb.String()
}

func sign(neg bool) string {
	if neg {
		return "-"
	}
	return ""
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"time"

	"github.com/relabs-tech/tilt_calculator/internal/imu"
)

// ErrSourceClosed is returned by NextBatch after Close.
var ErrSourceClosed = errors.New("sample source closed")

// readFunc takes one accelerometer reading.
type readFunc func() (imu.Sample, error)

// sampler paces a readFunc at a fixed rate and groups the readings into
// batches. Timestamps are milliseconds since the sampler was created.
type sampler struct {
	name   string
	read   readFunc
	size   int
	ticker *time.Ticker
	start  time.Time
	closed bool
}

func newSampler(name string, read readFunc, rateHz, perBatch int) (*sampler, error) {
	if rateHz <= 0 || perBatch <= 0 {
		return nil, fmt.Errorf("%s source: rate %d Hz and batch size %d must be positive", name, rateHz, perBatch)
	}
	return &sampler{
		name:   name,
		read:   read,
		size:   perBatch,
		ticker: time.NewTicker(time.Second / time.Duration(rateHz)),
		start:  time.Now(),
	}, nil
}

// NextBatch blocks until a full batch has been sampled.
func (s *sampler) NextBatch() (imu.Batch, error) {
	if s.closed {
		return imu.Batch{}, ErrSourceClosed
	}
	b := imu.Batch{Source: s.name, Samples: make([]imu.Sample, 0, s.size)}
	for len(b.Samples) < s.size {
		<-s.ticker.C
		smp, err := s.read()
		if err != nil {
			return imu.Batch{}, fmt.Errorf("%s source: %w", s.name, err)
		}
		b.Samples = append(b.Samples, smp)
	}
	b.Timestamp = uint32(time.Since(s.start).Milliseconds())
	return b, nil
}

func (s *sampler) Close() error {
	if !s.closed {
		s.closed = true
		s.ticker.Stop()
	}
	return nil
}

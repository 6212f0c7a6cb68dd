// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
)

// MockAmplitude is the peak tilt of the mock source in milli-G.
const MockAmplitude = 300

// mockTilt is a device lying flat and slowly rocking on both axes.
func mockTilt(elapsed float64) imu.Sample {
	return imu.Sample{
		X: int(MockAmplitude * math.Sin(elapsed)),
		Y: int(MockAmplitude * math.Cos(elapsed*0.7)),
		Z: -1000,
	}
}

// NewMockSource creates a source that generates smoothly changing tilt.
func NewMockSource(cfg *config.Config) (imu.BatchSource, error) {
	start := time.Now()
	read := func() (imu.Sample, error) {
		return mockTilt(time.Since(start).Seconds()), nil
	}
	return newSampler(config.SourceMock, read, cfg.SampleRateHz, cfg.SamplesPerBatch)
}

// NewSource opens the sample source selected by ACCEL_SOURCE.
func NewSource(cfg *config.Config) (imu.BatchSource, error) {
	switch cfg.AccelSource {
	case config.SourceIMU:
		return NewIMUSource(cfg)
	case config.SourceSerial:
		return NewSerialSource(cfg)
	default:
		return NewMockSource(cfg)
	}
}

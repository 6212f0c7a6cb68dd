// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"
)

// accelReader is the part of the MPU9250 driver the sampler needs.
type accelReader interface {
	GetAccelerationX() (int16, error)
	GetAccelerationY() (int16, error)
	GetAccelerationZ() (int16, error)
}

// ToMilliG converts a raw accelerometer count to milli-G for the given
// range setting (0=±2g, 1=±4g, 2=±8g, 3=±16g).
func ToMilliG(raw int16, accelRange byte) int {
	lsbPerG := 16384 >> (accelRange & 3)
	return int(raw) * 1000 / lsbPerG
}

func readAccel(dev accelReader, accelRange byte) readFunc {
	return func() (imu.Sample, error) {
		ax, err := dev.GetAccelerationX()
		if err != nil {
			return imu.Sample{}, fmt.Errorf("accel X: %w", err)
		}
		ay, err := dev.GetAccelerationY()
		if err != nil {
			return imu.Sample{}, fmt.Errorf("accel Y: %w", err)
		}
		az, err := dev.GetAccelerationZ()
		if err != nil {
			return imu.Sample{}, fmt.Errorf("accel Z: %w", err)
		}
		return imu.Sample{
			X: ToMilliG(ax, accelRange),
			Y: ToMilliG(ay, accelRange),
			Z: ToMilliG(az, accelRange),
		}, nil
	}
}

// NewIMUSource initializes the MPU9250 over SPI and returns a source that
// samples its accelerometer at SAMPLE_RATE_HZ.
func NewIMUSource(cfg *config.Config) (imu.BatchSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("IMU: periph host init: %w", err)
	}

	cs := gpioreg.ByName(cfg.IMUCSPin)
	if cs == nil {
		return nil, fmt.Errorf("IMU: CS pin %q not found", cfg.IMUCSPin)
	}

	tr, err := mpu9250.NewSpiTransport(cfg.IMUSPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("IMU: SPI transport (%s): %w", cfg.IMUSPIDevice, err)
	}

	dev, err := mpu9250.New(tr)
	if err != nil {
		return nil, fmt.Errorf("IMU: device creation: %w", err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("IMU: initialization: %w", err)
	}

	if err := dev.SetAccelRange(cfg.IMUAccelRange); err != nil {
		return nil, fmt.Errorf("IMU: set accel range: %w", err)
	}
	log.Printf("IMU: accelerometer range set to %d (±%dg)", cfg.IMUAccelRange, []int{2, 4, 8, 16}[cfg.IMUAccelRange])

	if err := dev.Calibrate(); err != nil {
		log.Printf("Warning: IMU calibration failed: %v", err)
	} else {
		log.Printf("IMU calibration complete")
	}

	return newSampler(config.SourceIMU, readAccel(dev, cfg.IMUAccelRange), cfg.SampleRateHz, cfg.SamplesPerBatch)
}

// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
)

// TypeACC is the proprietary sentence a serial accelerometer bridge emits:
//
//	$IIACC,<ms>,<x mG>,<y mG>,<z mG>*hh
const TypeACC = "ACC"

// ACC is one accelerometer reading received over serial.
type ACC struct {
	nmea.BaseSentence
	Time int64 // milliseconds, sender's clock
	X    int64
	Y    int64
	Z    int64
}

func init() {
	nmea.MustRegisterParser(TypeACC, parseACC)
}

func parseACC(s nmea.BaseSentence) (nmea.Sentence, error) {
	p := nmea.NewParser(s)
	m := ACC{
		BaseSentence: s,
		Time:         p.Int64(0, "time"),
		X:            p.Int64(1, "x"),
		Y:            p.Int64(2, "y"),
		Z:            p.Int64(3, "z"),
	}
	return m, p.Err()
}

type serialSource struct {
	port   io.ReadCloser
	reader *bufio.Reader
	size   int
}

// NewSerialSource opens SERIAL_PORT and reads ACC sentences from it.
func NewSerialSource(cfg *config.Config) (imu.BatchSource, error) {
	serialOpts := serial.OpenOptions{
		PortName:              cfg.SerialPort,
		BaudRate:              uint(cfg.SerialBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("serial source: open %s: %w", cfg.SerialPort, err)
	}
	log.Printf("serial source: opened %s at %d baud", serialOpts.PortName, serialOpts.BaudRate)
	return newSerialSource(port, cfg.SamplesPerBatch), nil
}

func newSerialSource(port io.ReadCloser, perBatch int) *serialSource {
	if perBatch < 1 {
		perBatch = 1
	}
	return &serialSource{port: port, reader: bufio.NewReader(port), size: perBatch}
}

// NextBatch reads sentences until a full batch is collected. Lines that are
// not valid ACC sentences are skipped.
func (s *serialSource) NextBatch() (imu.Batch, error) {
	b := imu.Batch{Source: config.SourceSerial, Samples: make([]imu.Sample, 0, s.size)}
	for len(b.Samples) < s.size {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return imu.Batch{}, fmt.Errorf("serial source: read: %w", err)
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			// partial lines right after opening the port are expected
			continue
		}
		acc, ok := sentence.(ACC)
		if !ok {
			continue
		}
		b.Samples = append(b.Samples, imu.Sample{X: int(acc.X), Y: int(acc.Y), Z: int(acc.Z)})
		b.Timestamp = uint32(acc.Time)
	}
	return b, nil
}

func (s *serialSource) Close() error {
	return s.port.Close()
}

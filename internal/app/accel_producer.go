// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/sensors"
)

// RunAccelProducer reads batches from the configured accelerometer source
// and publishes them as JSON to TOPIC_ACCEL.
func RunAccelProducer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := sensors.NewSource(cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.AccelSource, err)
	}
	log.Printf("producer: using %s source, %d samples per batch at %d Hz",
		cfg.AccelSource, cfg.SamplesPerBatch, cfg.SampleRateHz)

	client, err := connectMQTT(cfg, cfg.MQTTClientIDProducer)
	if err != nil {
		src.Close()
		return err
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT, publishing to %s", cfg.TopicAccel)

	// Closing the source unblocks a pending NextBatch.
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	var published uint64
	for {
		b, err := src.NextBatch()
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("producer: shutting down after %d batches", published)
				return nil
			}
			return fmt.Errorf("producer: %w", err)
		}

		payload, err := json.Marshal(b)
		if err != nil {
			log.Printf("producer: marshal batch: %v", err)
			continue
		}
		token := client.Publish(cfg.TopicAccel, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("producer: publish error: %v", token.Error())
			continue
		}
		published++
		if cfg.LogBatches {
			log.Printf("producer: batch ts=%d samples=%d", b.Timestamp, len(b.Samples))
		}
	}
}

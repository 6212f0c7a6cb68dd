// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/engine"
	"github.com/relabs-tech/tilt_calculator/internal/imu"
	"github.com/relabs-tech/tilt_calculator/internal/keypad"
)

// RunCalculator subscribes to sample batches and select requests, runs them
// through the engine and publishes cursor and display events. It optionally
// serves the web hub and drives an OLED display.
func RunCalculator(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := connectMQTT(cfg, cfg.MQTTClientIDCalculator)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)
	log.Printf("calculator: connected to MQTT broker at %s", cfg.MQTTBroker)

	settings := EngineSettings(cfg)
	listeners := Listeners{&eventPublisher{
		publish:      mqttPublish(client),
		cursorTopic:  cfg.TopicCursor,
		displayTopic: cfg.TopicDisplay,
	}}

	var loop *Loop
	var hub *Hub
	if cfg.WebServerPort > 0 {
		hub = NewHub(func() error { return loop.Activate() })
		listeners = append(listeners, hub)
	}

	var oled *OLEDSink
	if cfg.DisplayEnabled {
		grid, err := keypad.Build(settings.Columns, settings.Layout)
		if err != nil {
			return fmt.Errorf("display grid: %w", err)
		}
		oled, err = NewOLEDSink(cfg, grid)
		if err != nil {
			return err
		}
		listeners = append(listeners, oled)
	}

	eng, err := engine.Initialize(settings, listeners)
	if err != nil {
		return err
	}
	loop = NewLoop(eng)

	if hub != nil {
		loop.OnBatch = func(d engine.Diagnostics) {
			hub.Broadcast(DiagnosticsEvent{Type: EventDiagnostics, Diagnostics: d})
		}
		srv := NewWebServer(cfg.WebServerPort, loop, hub)
		go func() {
			log.Printf("web: server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("web: server error: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}
	if oled != nil {
		go oled.Run(ctx)
	}

	if err := subscribe(client, cfg.TopicAccel, func(_ mqtt.Client, msg mqtt.Message) {
		var b imu.Batch
		if err := json.Unmarshal(msg.Payload(), &b); err != nil {
			log.Printf("calculator: batch unmarshal error: %v", err)
			return
		}
		if err := loop.SubmitBatch(b); err != nil {
			log.Printf("calculator: %v", err)
		}
	}); err != nil {
		return err
	}
	log.Printf("calculator: subscribed to %s", cfg.TopicAccel)

	if err := subscribe(client, cfg.TopicSelect, func(_ mqtt.Client, msg mqtt.Message) {
		if !isSelect(msg.Payload()) {
			log.Printf("calculator: ignoring select payload %q", msg.Payload())
			return
		}
		if err := loop.Activate(); err != nil {
			log.Printf("calculator: %v", err)
		}
	}); err != nil {
		return err
	}
	log.Printf("calculator: subscribed to %s", cfg.TopicSelect)

	err = loop.Run(ctx)
	log.Println("calculator: shutting down")
	return err
}

// isSelect accepts an empty payload or {"action":"select"}.
func isSelect(payload []byte) bool {
	if len(payload) == 0 {
		return true
	}
	var ev SelectEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return false
	}
	return ev.Action == ActionSelect
}

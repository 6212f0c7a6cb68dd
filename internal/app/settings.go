// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_calculator/internal/config"
	"github.com/relabs-tech/tilt_calculator/internal/engine"
)

// EngineSettings maps the tilt section of the config onto the engine.
func EngineSettings(cfg *config.Config) engine.Settings {
	s := engine.DefaultSettings()
	s.WindowFast = cfg.WindowFast
	s.WindowSlow = cfg.WindowSlow
	s.ThresholdX = cfg.ThreshTiltX
	s.ThresholdY = cfg.ThreshTiltY
	s.InvertY = cfg.InvertY
	s.Debounce = uint32(cfg.ThreshTime)
	s.LogBatches = cfg.LogBatches
	return s
}

func connectMQTT(cfg *config.Config, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("MQTT connect to %s: %w", cfg.MQTTBroker, token.Error())
	}
	return client, nil
}

func subscribe(client mqtt.Client, topic string, cb mqtt.MessageHandler) error {
	token := client.Subscribe(topic, 0, cb)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return nil
}

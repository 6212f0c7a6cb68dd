// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_calculator/internal/engine"
)

// Event types carried on MQTT topics and the websocket.
const (
	EventCursor      = "cursor"
	EventDisplay     = "display"
	EventDiagnostics = "diagnostics"

	// ActionSelect is the only action a client can send: press the key
	// under the cursor.
	ActionSelect = "select"
)

// CursorEvent reports a new cursor position.
type CursorEvent struct {
	Type string `json:"type"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

// DisplayEvent reports new calculator display texts.
type DisplayEvent struct {
	Type string `json:"type"`
	Op   string `json:"op"`
	Num  string `json:"num"`
}

// DiagnosticsEvent carries the engine's per-batch diagnostics.
type DiagnosticsEvent struct {
	Type string `json:"type"`
	engine.Diagnostics
}

// SelectEvent is sent by clients on TOPIC_SELECT or the websocket.
type SelectEvent struct {
	Action string `json:"action"`
}

// Listeners fans engine events out to several listeners in order.
type Listeners []engine.Listener

func (ls Listeners) CursorChanged(row, col int) {
	for _, l := range ls {
		l.CursorChanged(row, col)
	}
}

func (ls Listeners) DisplayChanged(op, num string) {
	for _, l := range ls {
		l.DisplayChanged(op, num)
	}
}

// publishFunc sends v, JSON encoded, to topic.
type publishFunc func(topic string, v any)

// mqttPublish returns a publishFunc for client. Publishing is fire and
// forget so the event loop never waits on the broker.
func mqttPublish(client mqtt.Client) publishFunc {
	return func(topic string, v any) {
		payload, err := json.Marshal(v)
		if err != nil {
			log.Printf("calculator: marshal %s event: %v", topic, err)
			return
		}
		client.Publish(topic, 0, false, payload)
	}
}

// eventPublisher is an engine.Listener that publishes every event.
type eventPublisher struct {
	publish      publishFunc
	cursorTopic  string
	displayTopic string
}

func (p *eventPublisher) CursorChanged(row, col int) {
	p.publish(p.cursorTopic, CursorEvent{Type: EventCursor, Row: row, Col: col})
}

func (p *eventPublisher) DisplayChanged(op, num string) {
	p.publish(p.displayTopic, DisplayEvent{Type: EventDisplay, Op: op, Num: num})
}

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/tilt_calculator/internal/config"
)

// RunConsoleMQTT prints every cursor and display event the calculator
// publishes until interrupted.
func RunConsoleMQTT(cfg *config.Config) error {
	client, err := connectMQTT(cfg, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	if err := subscribe(client, cfg.TopicCursor, func(_ mqtt.Client, msg mqtt.Message) {
		var ev CursorEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: cursor unmarshal error: %v", err)
			return
		}
		fmt.Println(formatCursor(ev))
	}); err != nil {
		return err
	}
	log.Printf("console: subscribed to %s", cfg.TopicCursor)

	if err := subscribe(client, cfg.TopicDisplay, func(_ mqtt.Client, msg mqtt.Message) {
		var ev DisplayEvent
		if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
			log.Printf("console: display unmarshal error: %v", err)
			return
		}
		fmt.Println(formatDisplay(ev))
	}); err != nil {
		return err
	}
	log.Printf("console: subscribed to %s", cfg.TopicDisplay)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatCursor(ev CursorEvent) string {
	return fmt.Sprintf("[CURSOR] row=%d col=%d", ev.Row, ev.Col)
}

func formatDisplay(ev DisplayEvent) string {
	return fmt.Sprintf("[DISPLAY] %-2s %16s", ev.Op, ev.Num)
}

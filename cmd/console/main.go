// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/tilt_calculator/internal/app"
	"github.com/relabs-tech/tilt_calculator/internal/config"
)

func main() {
	configPath := flag.String("config", "./tilt_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting tilt-calculator (keyboard console)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsole(config.Get()); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

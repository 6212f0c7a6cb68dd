package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// Accelerometer sources.
const (
	SourceIMU    = "imu"
	SourceSerial = "serial"
	SourceMock   = "mock"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker             string `toml:"mqtt_broker"`
	MQTTClientIDProducer   string `toml:"mqtt_client_id_producer"`
	MQTTClientIDCalculator string `toml:"mqtt_client_id_calculator"`
	MQTTClientIDConsole    string `toml:"mqtt_client_id_console"`

	// Topics
	TopicAccel   string `toml:"topic_accel"`
	TopicSelect  string `toml:"topic_select"`
	TopicCursor  string `toml:"topic_cursor"`
	TopicDisplay string `toml:"topic_display"`

	// Sample source: "imu", "serial" or "mock"
	AccelSource string `toml:"accel_source"`

	// IMU Hardware
	IMUSPIDevice string `toml:"imu_spi_device"`
	IMUCSPin     string `toml:"imu_cs_pin"`
	// Accelerometer: 0=±2g, 1=±4g, 2=±8g, 3=±16g
	IMUAccelRange byte `toml:"imu_accel_range"`

	// Serial bridge
	SerialPort     string `toml:"serial_port"`
	SerialBaudRate int    `toml:"serial_baud_rate"`

	// Sampling
	SampleRateHz    int `toml:"sample_rate_hz"`
	SamplesPerBatch int `toml:"samples_per_batch"`

	// Tilt detection
	WindowFast  int  `toml:"window_fast"`
	WindowSlow  int  `toml:"window_slow"`
	ThreshTiltX int  `toml:"thresh_tilt_x"` // milli-G
	ThreshTiltY int  `toml:"thresh_tilt_y"` // milli-G
	ThreshTime  int  `toml:"thresh_time"`   // ms between cursor moves, 0 disables
	InvertY     bool `toml:"tilt_invert_y"`

	// Web Server (0 disables)
	WebServerPort int `toml:"web_server_port"`

	// Display
	DisplayEnabled bool   `toml:"display_enabled"`
	DisplayI2CBus  string `toml:"display_i2c_bus"`
	DisplayI2CAddr uint16 `toml:"display_i2c_addr"`

	LogBatches bool `toml:"log_batches"`
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the tuning the calculator was designed with: 4 and 64
// sample windows, 75 mG thresholds, no debounce, 4 samples every 80ms.
func Default() *Config {
	return &Config{
		MQTTBroker:             "tcp://localhost:1883",
		MQTTClientIDProducer:   "tilt-accel-producer",
		MQTTClientIDCalculator: "tilt-calculator",
		MQTTClientIDConsole:    "tilt-console",

		TopicAccel:   "tilt/accel",
		TopicSelect:  "tilt/select",
		TopicCursor:  "tilt/cursor",
		TopicDisplay: "tilt/display",

		AccelSource:    SourceMock,
		IMUSPIDevice:   "/dev/spidev0.0",
		IMUCSPin:       "GPIO8",
		SerialBaudRate: 115200,

		SampleRateHz:    50,
		SamplesPerBatch: 4,

		WindowFast:  4,
		WindowSlow:  64,
		ThreshTiltX: 75,
		ThreshTiltY: 75,

		DisplayI2CBus:  "",
		DisplayI2CAddr: 0x3C,
	}
}

// Load reads the configuration file and returns a Config struct.
// Files ending in .toml are decoded as TOML; anything else is read as
// KEY=VALUE lines. Unset keys keep their Default() value.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(configPath, ".toml") {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	} else if err := cfg.loadKeyValue(configPath); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadKeyValue(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := c.setValue(key, value); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func parseInt(key, value string, lo, hi int) (int, error) {
	val, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if val < lo || val > hi {
		return 0, fmt.Errorf("%s must be %d-%d, got %d", key, lo, hi, val)
	}
	return val, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CALCULATOR":
		c.MQTTClientIDCalculator = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_SELECT":
		c.TopicSelect = value
	case "TOPIC_CURSOR":
		c.TopicCursor = value
	case "TOPIC_DISPLAY":
		c.TopicDisplay = value

	case "ACCEL_SOURCE":
		c.AccelSource = strings.ToLower(value)

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_RANGE":
		rangeVal, perr := parseInt(key, value, 0, 3)
		if perr != nil {
			return fmt.Errorf("%w (0=±2g, 1=±4g, 2=±8g, 3=±16g)", perr)
		}
		c.IMUAccelRange = byte(rangeVal)

	// Serial bridge
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		c.SerialBaudRate, err = parseInt(key, value, 1, 4000000)

	// Sampling
	case "SAMPLE_RATE_HZ":
		c.SampleRateHz, err = parseInt(key, value, 1, 1000)
	case "SAMPLES_PER_BATCH":
		c.SamplesPerBatch, err = parseInt(key, value, 1, 128)

	// Tilt detection
	case "WINDOW_FAST":
		c.WindowFast, err = parseInt(key, value, 1, 128)
	case "WINDOW_SLOW":
		c.WindowSlow, err = parseInt(key, value, 1, 128)
	case "THRESH_TILT_X":
		c.ThreshTiltX, err = parseInt(key, value, 0, 16000)
	case "THRESH_TILT_Y":
		c.ThreshTiltY, err = parseInt(key, value, 0, 16000)
	case "THRESH_TIME":
		c.ThreshTime, err = parseInt(key, value, 0, 60000)
	case "TILT_INVERT_Y":
		c.InvertY, err = parseBool(key, value)

	// Web Server
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value, 0, 65535)

	// Display
	case "DISPLAY_ENABLED":
		c.DisplayEnabled, err = parseBool(key, value)
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_I2C_ADDR":
		addr, perr := strconv.ParseUint(value, 0, 16)
		if perr != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, perr)
		}
		c.DisplayI2CAddr = uint16(addr)

	case "LOG_BATCHES":
		c.LogBatches, err = parseBool(key, value)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.TopicAccel == "" || c.TopicSelect == "" || c.TopicCursor == "" || c.TopicDisplay == "" {
		return fmt.Errorf("TOPIC_ACCEL, TOPIC_SELECT, TOPIC_CURSOR and TOPIC_DISPLAY are required")
	}
	switch c.AccelSource {
	case SourceMock:
	case SourceIMU:
		if c.IMUSPIDevice == "" {
			return fmt.Errorf("IMU_SPI_DEVICE is required for ACCEL_SOURCE=imu")
		}
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required for ACCEL_SOURCE=serial")
		}
	default:
		return fmt.Errorf("ACCEL_SOURCE must be imu, serial or mock, got %q", c.AccelSource)
	}
	if c.WindowFast < 1 || c.WindowSlow < 1 {
		return fmt.Errorf("WINDOW_FAST and WINDOW_SLOW must be positive")
	}
	if c.WindowFast > c.WindowSlow {
		return fmt.Errorf("WINDOW_FAST (%d) must not exceed WINDOW_SLOW (%d)", c.WindowFast, c.WindowSlow)
	}
	if c.SampleRateHz < 1 || c.SamplesPerBatch < 1 {
		return fmt.Errorf("SAMPLE_RATE_HZ and SAMPLES_PER_BATCH must be positive")
	}
	if c.IMUAccelRange > 3 {
		return fmt.Errorf("IMU_ACCEL_RANGE must be 0-3, got %d", c.IMUAccelRange)
	}
	return nil
}

// BatchInterval is the time covered by one batch, in milliseconds.
func (c *Config) BatchInterval() int {
	return c.SamplesPerBatch * 1000 / c.SampleRateHz
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}

// internal/config/config.go

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Gateway   GatewayConfig   `yaml:"gateway"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Devices   []DeviceConfig  `yaml:"devices"`
	Poll      PollConfig      `yaml:"poll"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
}

// ---- GATEWAY ----

type GatewayConfig struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	ConnectTimeoutMs   int `yaml:"connect_timeout_ms"`
	ReadTimeoutMs      int `yaml:"read_timeout_ms"`
	TableReadTimeoutMs int `yaml:"table_read_timeout_ms"`
}

// ---- DISCOVERY ----

type DiscoveryConfig struct {
	Ranges []RangeConfig `yaml:"ranges"`
}

type RangeConfig struct {
	First     uint8 `yaml:"first"`
	Last      uint8 `yaml:"last"`
	Tolerance int   `yaml:"tolerance"`
}

// ---- PAIRED DEVICES ----

type DeviceConfig struct {
	UnitID              uint8  `yaml:"unit_id"`
	TypeID              uint16 `yaml:"type_id"`
	CommercialReference string `yaml:"commercial_reference"`
	VoltageMode         string `yaml:"voltage_mode"` // energy family: "l-n" | "l-l"
	Name                string `yaml:"name"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- MQTT ----

type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
}

// Load reads and parses a yaml config file. Validation is a separate step.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

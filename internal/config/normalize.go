// internal/config/normalize.go

package config

// Defaults applied by Normalize.
const (
	DefaultPort               uint16 = 502
	DefaultConnectTimeoutMs          = 5000
	DefaultReadTimeoutMs             = 350
	DefaultTableReadTimeoutMs        = 750
	DefaultPollIntervalMs            = 5000
	DefaultTopicPrefix               = "powertag"
	DefaultClientID                  = "powertag-link"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = DefaultPort
	}
	if cfg.Gateway.ConnectTimeoutMs == 0 {
		cfg.Gateway.ConnectTimeoutMs = DefaultConnectTimeoutMs
	}
	if cfg.Gateway.ReadTimeoutMs == 0 {
		cfg.Gateway.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if cfg.Gateway.TableReadTimeoutMs == 0 {
		cfg.Gateway.TableReadTimeoutMs = DefaultTableReadTimeoutMs
	}

	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollIntervalMs
	}

	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}

	// Scan ranges default in the discovery package; an empty list stays
	// empty here so the caller can tell "unset" from "configured".
}

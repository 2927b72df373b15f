// internal/config/validate.go

package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// GATEWAY
	// ------------------------------------------------------------

	if cfg.Gateway.Host == "" {
		return fmt.Errorf("gateway.host is required")
	}
	if cfg.Gateway.ConnectTimeoutMs < 0 || cfg.Gateway.ReadTimeoutMs < 0 || cfg.Gateway.TableReadTimeoutMs < 0 {
		return fmt.Errorf("gateway timeouts must not be negative")
	}

	// ------------------------------------------------------------
	// DISCOVERY RANGES
	// ------------------------------------------------------------

	for i, r := range cfg.Discovery.Ranges {
		if r.First < 1 {
			return fmt.Errorf("discovery.ranges[%d]: first must be >= 1", i)
		}
		if r.Last < r.First {
			return fmt.Errorf("discovery.ranges[%d]: last %d < first %d", i, r.Last, r.First)
		}
		if r.Tolerance < 1 {
			return fmt.Errorf("discovery.ranges[%d]: tolerance must be >= 1", i)
		}
	}

	// ------------------------------------------------------------
	// PAIRED DEVICES
	// ------------------------------------------------------------

	seen := make(map[uint8]int)

	for i, d := range cfg.Devices {
		if d.UnitID < 1 || d.UnitID > 247 {
			return fmt.Errorf("devices[%d]: unit_id %d out of range 1..247", i, d.UnitID)
		}
		if prev, dup := seen[d.UnitID]; dup {
			return fmt.Errorf("devices[%d]: unit_id %d already used by devices[%d]", i, d.UnitID, prev)
		}
		seen[d.UnitID] = i

		if d.TypeID == 0 && d.CommercialReference == "" {
			return fmt.Errorf("devices[%d]: type_id or commercial_reference is required", i)
		}

		switch d.VoltageMode {
		case "", "l-n", "l-l":
		default:
			return fmt.Errorf("devices[%d]: voltage_mode %q (want l-n or l-l)", i, d.VoltageMode)
		}
	}

	// ------------------------------------------------------------
	// POLL
	// ------------------------------------------------------------

	if cfg.Poll.IntervalMs < 0 {
		return fmt.Errorf("poll.interval_ms must not be negative")
	}

	return nil
}

// internal/discovery/discovery.go

// Package discovery enumerates the devices behind a gateway.
//
// Two strategies run over one session, in a fixed order: the Panel Server
// address table first, then a Smartlink-style unit-id range scan if the
// table yielded nothing. Each unit id is visited at most once per run, so
// no dedup pass is needed. Discovery never fails once the session is
// connected; it returns whatever it found, possibly nothing.
package discovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/model"
	"github.com/tagbridge/powertag-link/internal/reader"
	"github.com/tagbridge/powertag-link/internal/session"
	"github.com/tagbridge/powertag-link/internal/wire"
)

// Panel Server device address table: 99 slots of 5 registers each. The
// first register of a slot holds the device's unit id; 0 and 65535 mark
// an empty slot.
const (
	addressTableBase  uint16 = 504
	addressTableSlots        = 99
	slotRegisters            = 5
)

const slotEmpty uint16 = 0xFFFF

// Device is one discovered device descriptor. Ephemeral: it exists only
// for the duration of one discovery run.
type Device struct {
	UnitID uint8
	TypeID uint16
	Model  model.Descriptor
	Name   string // user-configured; may be empty
}

// ScanRange is one unit-id sub-range of the fallback scan. Tolerance is
// the number of consecutive timeouts/exceptions after which the sub-range
// is abandoned (device ids are densely packed, so a run of misses marks
// the end of the populated addresses).
type ScanRange struct {
	First     uint8
	Last      uint8
	Tolerance int
}

// DefaultRanges scans the densely-populated primary range with a higher
// miss tolerance and the two extended ranges fail-fast.
func DefaultRanges() []ScanRange {
	return []ScanRange{
		{First: 1, Last: 99, Tolerance: 5},
		{First: 100, Last: 199, Tolerance: 3},
		{First: 200, Last: 247, Tolerance: 3},
	}
}

// Config tunes one discovery run. Per-device timeouts are deliberately
// short: a timeout is the primary signal that a unit id is unoccupied.
type Config struct {
	ReadTimeout      time.Duration // per-device register reads
	TableReadTimeout time.Duration // address-table chunk reads
	Ranges           []ScanRange
}

// Transport is the session contract discovery needs. *session.Session
// satisfies it.
type Transport interface {
	SetUnitID(id uint8)
	ReadHoldingRegisters(start, count uint16, timeout time.Duration) ([]byte, error)
	WriteSingleRegister(register, value uint16, timeout time.Duration) error
}

// Discover runs both strategies and returns the devices found. The caller
// owns the session and must close it on every path.
func Discover(ctx context.Context, t Transport, reg *model.Registry, cfg Config, log zerolog.Logger) []Device {
	if len(cfg.Ranges) == 0 {
		cfg.Ranges = DefaultRanges()
	}

	devices, err := panelServerScan(ctx, t, reg, cfg, log)
	if err != nil {
		// Unit 255 does not expose the table on Smartlink-class gateways.
		log.Debug().Err(err).Msg("address table unavailable, falling back to range scan")
	}
	if len(devices) > 0 {
		return devices
	}

	return rangeScan(ctx, t, reg, cfg, log)
}

// panelServerScan reads the gateway's device address table and probes each
// occupied slot. A per-slot failure skips that slot only; a failed table
// read abandons the whole strategy.
func panelServerScan(ctx context.Context, t Transport, reg *model.Registry, cfg Config, log zerolog.Logger) ([]Device, error) {
	t.SetUnitID(session.GatewayUnitID)

	table := make([]byte, 0, addressTableSlots*slotRegisters*2)
	start := addressTableBase
	remaining := uint16(addressTableSlots * slotRegisters)
	for remaining > 0 {
		count := remaining
		if count > session.MaxRegistersPerRead {
			count = session.MaxRegistersPerRead
		}
		chunk, err := t.ReadHoldingRegisters(start, count, cfg.TableReadTimeout)
		if err != nil {
			return nil, err
		}
		table = append(table, chunk...)
		start += count
		remaining -= count
	}

	rd := reader.New(t, cfg.ReadTimeout)
	var devices []Device

	for slot := 0; slot < addressTableSlots; slot++ {
		if ctx.Err() != nil {
			break
		}

		unit, err := wire.Uint16(table, slot*slotRegisters*2)
		if err != nil {
			break
		}
		if unit == 0 || unit == slotEmpty || unit > 247 {
			continue
		}

		t.SetUnitID(uint8(unit))

		ref, err := rd.CommercialReference()
		if err != nil || ref == "" {
			log.Debug().Int("slot", slot+1).Uint16("unit", unit).Err(err).
				Msg("slot skipped: no commercial reference")
			continue
		}

		desc, ok := reg.ByCommercialReference(ref)
		if !ok {
			log.Debug().Uint16("unit", unit).Str("reference", ref).
				Msg("slot skipped: unknown model")
			continue
		}

		devices = append(devices, Device{
			UnitID: uint8(unit),
			TypeID: desc.TypeID,
			Model:  desc,
			Name:   optionalName(rd),
		})
	}

	return devices, nil
}

// rangeScan probes unit ids in ascending order, reading the device-type
// register of each. Type values 0/65535 mean "no device" without counting
// as a miss; timeouts and exceptions count toward the per-range tolerance.
func rangeScan(ctx context.Context, t Transport, reg *model.Registry, cfg Config, log zerolog.Logger) []Device {
	rd := reader.New(t, cfg.ReadTimeout)
	var devices []Device

	for _, r := range cfg.Ranges {
		misses := 0

		for unit := int(r.First); unit <= int(r.Last); unit++ {
			if ctx.Err() != nil {
				return devices
			}

			t.SetUnitID(uint8(unit))

			typeID, err := rd.DeviceType()
			if err != nil {
				misses++
				if misses >= r.Tolerance {
					log.Debug().Int("unit", unit).Int("misses", misses).
						Msg("range abandoned after consecutive misses")
					break
				}
				continue
			}

			if typeID == 0 || typeID == 0xFFFF {
				continue
			}

			misses = 0

			desc, ok := reg.ByTypeID(typeID)
			if !ok {
				log.Debug().Int("unit", unit).Uint16("type", typeID).
					Msg("unit skipped: unknown model")
				continue
			}

			devices = append(devices, Device{
				UnitID: uint8(unit),
				TypeID: typeID,
				Model:  desc,
				Name:   optionalName(rd),
			})
		}
	}

	return devices
}

// optionalName reads the device name; absence of the register is non-fatal.
func optionalName(rd *reader.Reader) string {
	name, err := rd.DeviceName()
	if err != nil {
		return ""
	}
	return name
}

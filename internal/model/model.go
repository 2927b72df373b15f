// internal/model/model.go

// Package model holds the static PowerTag device-model registry.
// The table is protocol data: it is built once at init and read-only
// afterward, so concurrent lookups from multiple sessions need no locking.
package model

// Family selects which register-block set and snapshot type a device uses.
type Family uint8

const (
	FamilyEnergy      Family = iota // A9MEM15xx energy sensors
	FamilyEnvironment               // HeatTag temperature/humidity sensor
	FamilyContact2DI                // 2-input contact module
	FamilyControlIO                 // input/output control module
)

func (f Family) String() string {
	switch f {
	case FamilyEnergy:
		return "energy"
	case FamilyEnvironment:
		return "environment"
	case FamilyContact2DI:
		return "contact-2di"
	case FamilyControlIO:
		return "control-io"
	}
	return "unknown"
}

// VoltageMode selects which voltage block an energy sensor is read with.
type VoltageMode uint8

const (
	VoltageNone VoltageMode = iota
	VoltageLN               // phase-to-neutral
	VoltageLL               // phase-to-phase
)

// Descriptor describes one device model. Immutable.
type Descriptor struct {
	TypeID              uint16
	CommercialReference string
	Name                string
	PhaseCount          int // 1 or 3; 0 for non-energy families
	Family              Family

	// Voltage modes the model supports. A 3P sensor without neutral
	// supports L-L only.
	SupportsLN bool
	SupportsLL bool
}

// DefaultVoltageMode returns the preferred voltage mode for the model.
func (d Descriptor) DefaultVoltageMode() VoltageMode {
	switch {
	case d.SupportsLN:
		return VoltageLN
	case d.SupportsLL:
		return VoltageLL
	}
	return VoltageNone
}

// BlockSpec is one contiguous holding-register read. Geometry only; the
// reader owns decoding. Block layouts are per-model data and are never
// inferred from register adjacency.
type BlockSpec struct {
	Start uint16
	Count uint16
}

// Device-identity registers, shared by discovery and polling.
const (
	RegDeviceType         uint16 = 31024
	RegDeviceName         uint16 = 31000
	RegDeviceNameCount    uint16 = 10
	RegCommercialRef      uint16 = 31060
	RegCommercialRefCount uint16 = 16
)

// Registry is a read-only model table.
type Registry struct {
	byType []Descriptor
}

// ByTypeID resolves a descriptor from the device-type register value.
func (r *Registry) ByTypeID(id uint16) (Descriptor, bool) {
	for _, d := range r.byType {
		if d.TypeID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ByCommercialReference resolves a descriptor from a commercial-reference
// string, matching exactly first and then by known-reference prefix
// (gateways report variants such as "A9MEM1541C" for "A9MEM1541").
func (r *Registry) ByCommercialReference(ref string) (Descriptor, bool) {
	if ref == "" {
		return Descriptor{}, false
	}
	for _, d := range r.byType {
		if d.CommercialReference == ref {
			return d, true
		}
	}
	for _, d := range r.byType {
		if len(ref) > len(d.CommercialReference) &&
			ref[:len(d.CommercialReference)] == d.CommercialReference {
			return d, true
		}
	}
	return Descriptor{}, false
}

// All returns the full table, for listings.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.byType))
	copy(out, r.byType)
	return out
}

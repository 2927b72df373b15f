// internal/model/table.go

package model

// Default returns the registry of known PowerTag models.
//
// Type ids and commercial references follow the Smartlink / Panel Server
// device-identification table. 3P sensors without a neutral connection
// report phase-to-phase voltages only.
func Default() *Registry {
	return &Registry{byType: []Descriptor{
		// ---- PowerTag M63 ----
		{TypeID: 41, CommercialReference: "A9MEM1520", Name: "PowerTag M63 1P", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 42, CommercialReference: "A9MEM1521", Name: "PowerTag M63 1P+N top", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 43, CommercialReference: "A9MEM1522", Name: "PowerTag M63 1P+N bottom", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 44, CommercialReference: "A9MEM1540", Name: "PowerTag M63 3P", PhaseCount: 3, Family: FamilyEnergy, SupportsLL: true},
		{TypeID: 45, CommercialReference: "A9MEM1541", Name: "PowerTag M63 3P+N top", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 46, CommercialReference: "A9MEM1542", Name: "PowerTag M63 3P+N bottom", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 47, CommercialReference: "A9MEM1543", Name: "PowerTag M63 3P 230V", PhaseCount: 3, Family: FamilyEnergy, SupportsLL: true},

		// ---- PowerTag F63 / P63 ----
		{TypeID: 81, CommercialReference: "A9MEM1560", Name: "PowerTag F63 1P+N", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 82, CommercialReference: "A9MEM1561", Name: "PowerTag P63 1P+N top", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 83, CommercialReference: "A9MEM1562", Name: "PowerTag P63 1P+N bottom", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 84, CommercialReference: "A9MEM1563", Name: "PowerTag P63 1P+N left", PhaseCount: 1, Family: FamilyEnergy, SupportsLN: true},
		{TypeID: 85, CommercialReference: "A9MEM1570", Name: "PowerTag F63 3P+N", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 86, CommercialReference: "A9MEM1571", Name: "PowerTag P63 3P+N top", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 87, CommercialReference: "A9MEM1572", Name: "PowerTag P63 3P+N bottom", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},

		// ---- PowerTag F160 / Rope ----
		{TypeID: 92, CommercialReference: "A9MEM1580", Name: "PowerTag F160", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 96, CommercialReference: "A9MEM1590", Name: "PowerTag Rope M250", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 97, CommercialReference: "A9MEM1591", Name: "PowerTag Rope M630", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 98, CommercialReference: "A9MEM1592", Name: "PowerTag Rope R1000", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},
		{TypeID: 99, CommercialReference: "A9MEM1593", Name: "PowerTag Rope R2000", PhaseCount: 3, Family: FamilyEnergy, SupportsLN: true, SupportsLL: true},

		// ---- Environmental ----
		{TypeID: 106, CommercialReference: "SMT10020", Name: "HeatTag", Family: FamilyEnvironment},

		// ---- Control modules ----
		{TypeID: 121, CommercialReference: "A9XMC1D3", Name: "Acti9 Active I/O", Family: FamilyControlIO},
		{TypeID: 122, CommercialReference: "A9XMC2D3", Name: "Acti9 Active 2DI", Family: FamilyContact2DI},
	}}
}

// Energy-family measurement blocks. Single-phase sensors answer the full
// block and report NaN for unconnected phases, so the geometry is shared
// by all energy models.
var (
	BlockCurrent     = BlockSpec{Start: 2999, Count: 6}
	BlockVoltageLL   = BlockSpec{Start: 3019, Count: 6}
	BlockVoltageLN   = BlockSpec{Start: 3027, Count: 6}
	BlockPower       = BlockSpec{Start: 3053, Count: 8}
	BlockPowerFactor = BlockSpec{Start: 3083, Count: 2}
	BlockFrequency   = BlockSpec{Start: 3109, Count: 2}
	BlockTemperature = BlockSpec{Start: 3131, Count: 2}
	BlockEnergy      = BlockSpec{Start: 3203, Count: 4}
)

// Environment-family blocks.
var (
	BlockAirTemperature = BlockSpec{Start: 4001, Count: 2}
	BlockHumidity       = BlockSpec{Start: 4007, Count: 2}
	BlockAlarmLevel     = BlockSpec{Start: 3323, Count: 1}
)

// Contact and control-module registers.
var (
	BlockInput1       = BlockSpec{Start: 34065, Count: 1}
	BlockInput2       = BlockSpec{Start: 34165, Count: 1}
	BlockOutputStatus = BlockSpec{Start: 37052, Count: 1}
)

// RegOutputCommand is the single-register write target for the output
// control module. Command values: 2 = on, 1 = off, 0 = none.
const RegOutputCommand uint16 = 37051

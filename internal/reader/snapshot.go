// internal/reader/snapshot.go

package reader

// Snapshot is one decoded poll result. Concrete types are per model family.
// A snapshot is produced fresh on every poll and is never partially filled:
// if any block read fails, no snapshot is returned at all.
type Snapshot interface {
	snapshot()
}

// EnergySnapshot holds one poll of an A9MEM15xx energy sensor.
// Single-phase models report NaN on unconnected phases; NaN is kept.
type EnergySnapshot struct {
	CurrentA float64 `json:"current_a"`
	CurrentB float64 `json:"current_b"`
	CurrentC float64 `json:"current_c"`

	// Phase voltages: L-N (A/B/C to neutral) or L-L (AB/BC/CA) depending
	// on the configured voltage mode.
	VoltageA float64 `json:"voltage_a"`
	VoltageB float64 `json:"voltage_b"`
	VoltageC float64 `json:"voltage_c"`

	PowerA     float64 `json:"power_a"`
	PowerB     float64 `json:"power_b"`
	PowerC     float64 `json:"power_c"`
	PowerTotal float64 `json:"power_total"`

	PowerFactor  float64 `json:"power_factor"`
	Frequency    float64 `json:"frequency"`
	InternalTemp float64 `json:"internal_temp"`

	// Cumulative active energy in kWh (device stores Wh).
	TotalEnergy float64 `json:"total_energy"`
}

// HeatTagSnapshot holds one poll of the HeatTag environmental sensor.
type HeatTagSnapshot struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"` // percent
	AlarmLevel  uint16  `json:"alarm_level"`
}

// Contact2DISnapshot holds one poll of the 2-input contact module.
// true means the contact is "on" (the device reports 0 for on).
type Contact2DISnapshot struct {
	Input1 bool `json:"input_1"`
	Input2 bool `json:"input_2"`
}

// ControlIOSnapshot holds one poll of the input/output control module.
type ControlIOSnapshot struct {
	Input  bool `json:"input"`
	Output bool `json:"output"`
}

func (EnergySnapshot) snapshot()     {}
func (HeatTagSnapshot) snapshot()    {}
func (Contact2DISnapshot) snapshot() {}
func (ControlIOSnapshot) snapshot()  {}

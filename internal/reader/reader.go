// internal/reader/reader.go

// Package reader turns one device's register blocks into a typed snapshot.
//
// The caller selects the unit id on the transport before polling. All block
// reads of one poll are issued without waiting on each other and joined
// before the snapshot is assembled; the session serializes the actual wire
// transactions, so only completion ordering is relaxed. Any block failure
// fails the whole poll.
package reader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tagbridge/powertag-link/internal/model"
	"github.com/tagbridge/powertag-link/internal/wire"
)

// Transport is the exact session contract the reader uses.
type Transport interface {
	SetUnitID(id uint8)
	ReadHoldingRegisters(start, count uint16, timeout time.Duration) ([]byte, error)
	WriteSingleRegister(register, value uint16, timeout time.Duration) error
}

// Reader polls one already-addressed device.
type Reader struct {
	t       Transport
	timeout time.Duration
}

func New(t Transport, timeout time.Duration) *Reader {
	return &Reader{t: t, timeout: timeout}
}

// Read dispatches on the model family and returns one snapshot.
// mode is only meaningful for the energy family.
func (r *Reader) Read(ctx context.Context, d model.Descriptor, mode model.VoltageMode) (Snapshot, error) {
	switch d.Family {
	case model.FamilyEnergy:
		return r.ReadEnergy(ctx, mode)
	case model.FamilyEnvironment:
		return r.ReadHeatTag(ctx)
	case model.FamilyContact2DI:
		return r.ReadContact2DI(ctx)
	case model.FamilyControlIO:
		return r.ReadControlIO(ctx)
	}
	return nil, fmt.Errorf("reader: no block set for family %s", d.Family)
}

// ReadEnergy polls the 7 energy-family blocks.
func (r *Reader) ReadEnergy(ctx context.Context, mode model.VoltageMode) (EnergySnapshot, error) {
	voltageBlock := model.BlockVoltageLN
	if mode == model.VoltageLL {
		voltageBlock = model.BlockVoltageLL
	}

	var current, voltage, power, pf, freq, temp, energy []byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(r.fetch(model.BlockCurrent, &current))
	g.Go(r.fetch(voltageBlock, &voltage))
	g.Go(r.fetch(model.BlockPower, &power))
	g.Go(r.fetch(model.BlockPowerFactor, &pf))
	g.Go(r.fetch(model.BlockFrequency, &freq))
	g.Go(r.fetch(model.BlockTemperature, &temp))
	g.Go(r.fetch(model.BlockEnergy, &energy))
	if err := g.Wait(); err != nil {
		return EnergySnapshot{}, err
	}

	var s EnergySnapshot
	var err error

	if s.CurrentA, s.CurrentB, s.CurrentC, err = triple(current); err != nil {
		return EnergySnapshot{}, err
	}
	if s.VoltageA, s.VoltageB, s.VoltageC, err = triple(voltage); err != nil {
		return EnergySnapshot{}, err
	}
	if s.PowerA, s.PowerB, s.PowerC, err = triple(power); err != nil {
		return EnergySnapshot{}, err
	}
	if s.PowerTotal, err = wire.Float32(power, 12); err != nil {
		return EnergySnapshot{}, err
	}
	if s.PowerFactor, err = wire.Float32(pf, 0); err != nil {
		return EnergySnapshot{}, err
	}
	if s.Frequency, err = wire.Float32(freq, 0); err != nil {
		return EnergySnapshot{}, err
	}
	if s.InternalTemp, err = wire.Float32(temp, 0); err != nil {
		return EnergySnapshot{}, err
	}
	if s.TotalEnergy, err = wire.ScaledInt64(energy, 0, 1000); err != nil {
		return EnergySnapshot{}, err
	}
	return s, nil
}

// ReadHeatTag polls the 3 environmental blocks. Humidity is stored as a
// fraction and reported as a percentage.
func (r *Reader) ReadHeatTag(ctx context.Context) (HeatTagSnapshot, error) {
	var temp, hum, alarm []byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(r.fetch(model.BlockAirTemperature, &temp))
	g.Go(r.fetch(model.BlockHumidity, &hum))
	g.Go(r.fetch(model.BlockAlarmLevel, &alarm))
	if err := g.Wait(); err != nil {
		return HeatTagSnapshot{}, err
	}

	var s HeatTagSnapshot
	var err error

	if s.Temperature, err = wire.Float32(temp, 0); err != nil {
		return HeatTagSnapshot{}, err
	}
	if s.Humidity, err = wire.Float32(hum, 0); err != nil {
		return HeatTagSnapshot{}, err
	}
	s.Humidity *= 100
	if s.AlarmLevel, err = wire.Uint16(alarm, 0); err != nil {
		return HeatTagSnapshot{}, err
	}
	return s, nil
}

// ReadContact2DI polls the two input-status registers.
func (r *Reader) ReadContact2DI(ctx context.Context) (Contact2DISnapshot, error) {
	var in1, in2 []byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(r.fetch(model.BlockInput1, &in1))
	g.Go(r.fetch(model.BlockInput2, &in2))
	if err := g.Wait(); err != nil {
		return Contact2DISnapshot{}, err
	}

	var s Contact2DISnapshot
	var err error

	if s.Input1, err = inputOn(in1); err != nil {
		return Contact2DISnapshot{}, err
	}
	if s.Input2, err = inputOn(in2); err != nil {
		return Contact2DISnapshot{}, err
	}
	return s, nil
}

// ReadControlIO polls input and output status. The two registers use
// opposite polarity conventions.
func (r *Reader) ReadControlIO(ctx context.Context) (ControlIOSnapshot, error) {
	var in, out []byte

	g, _ := errgroup.WithContext(ctx)
	g.Go(r.fetch(model.BlockInput1, &in))
	g.Go(r.fetch(model.BlockOutputStatus, &out))
	if err := g.Wait(); err != nil {
		return ControlIOSnapshot{}, err
	}

	var s ControlIOSnapshot
	var err error

	if s.Input, err = inputOn(in); err != nil {
		return ControlIOSnapshot{}, err
	}
	raw, err := wire.Uint16(out, 0)
	if err != nil {
		return ControlIOSnapshot{}, err
	}
	s.Output = raw == 1
	return s, nil
}

// WriteOutput commands the control module's output: 2 = on, 1 = off.
func (r *Reader) WriteOutput(on bool) error {
	value := uint16(1)
	if on {
		value = 2
	}
	return r.t.WriteSingleRegister(model.RegOutputCommand, value, r.timeout)
}

// CommercialReference reads the 32-character commercial-reference string.
func (r *Reader) CommercialReference() (string, error) {
	buf, err := r.t.ReadHoldingRegisters(model.RegCommercialRef, model.RegCommercialRefCount, r.timeout)
	if err != nil {
		return "", err
	}
	return wire.FixedASCII(buf), nil
}

// DeviceName reads the user-configured device name.
func (r *Reader) DeviceName() (string, error) {
	buf, err := r.t.ReadHoldingRegisters(model.RegDeviceName, model.RegDeviceNameCount, r.timeout)
	if err != nil {
		return "", err
	}
	return wire.FixedASCII(buf), nil
}

// DeviceType reads the numeric device-type register.
func (r *Reader) DeviceType() (uint16, error) {
	buf, err := r.t.ReadHoldingRegisters(model.RegDeviceType, 1, r.timeout)
	if err != nil {
		return 0, err
	}
	return wire.Uint16(buf, 0)
}

func (r *Reader) fetch(b model.BlockSpec, dst *[]byte) func() error {
	return func() error {
		buf, err := r.t.ReadHoldingRegisters(b.Start, b.Count, r.timeout)
		if err != nil {
			return err
		}
		*dst = buf
		return nil
	}
}

// triple decodes three consecutive float32 values from a block.
func triple(buf []byte) (a, b, c float64, err error) {
	if a, err = wire.Float32(buf, 0); err != nil {
		return
	}
	if b, err = wire.Float32(buf, 4); err != nil {
		return
	}
	c, err = wire.Float32(buf, 8)
	return
}

// inputOn decodes an input-status register: the device reports 0 for "on".
func inputOn(buf []byte) (bool, error) {
	raw, err := wire.Uint16(buf, 0)
	if err != nil {
		return false, err
	}
	return raw == 0, nil
}

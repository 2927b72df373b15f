// internal/poll/poll.go

// Package poll drives the per-device polling loop. One Poller per paired
// device, each over its own session; pollers for different devices run
// fully in parallel with no shared state.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/model"
	"github.com/tagbridge/powertag-link/internal/reader"
)

// Health is the device-level state derived from poll outcomes.
type Health uint8

const (
	HealthUnknown Health = iota // boot state, nothing polled yet
	HealthOK
	HealthError
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	}
	return "unknown"
}

// Device is one paired device.
type Device struct {
	UnitID      uint8
	Model       model.Descriptor
	VoltageMode model.VoltageMode
	Name        string
}

// Result is one poll cycle's outcome. All-or-nothing: Snapshot is nil
// whenever Err is set.
type Result struct {
	Device Device
	At     time.Time

	Snapshot reader.Snapshot
	Err      error

	Health        Health
	HealthChanged bool
}

// Config is the minimal runtime config a poller needs.
type Config struct {
	Device      Device
	Interval    time.Duration
	ReadTimeout time.Duration
}

// Poller is a dumb, clock-driven reader. No overlap, no retries: a failed
// cycle is reported and the next tick tries again.
type Poller struct {
	cfg    Config
	t      reader.Transport
	rd     *reader.Reader
	health Health
	log    zerolog.Logger
}

// New creates a poller with immutable config.
func New(cfg Config, t reader.Transport, log zerolog.Logger) (*Poller, error) {
	if cfg.Device.UnitID < 1 || cfg.Device.UnitID > 247 {
		return nil, errors.New("poll: unit id out of range")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poll: interval must be > 0")
	}
	return &Poller{
		cfg:    cfg,
		t:      t,
		rd:     reader.New(t, cfg.ReadTimeout),
		health: HealthUnknown,
		log:    log,
	}, nil
}

// PollOnce performs exactly one poll cycle for the device.
func (p *Poller) PollOnce(ctx context.Context) Result {
	res := Result{
		Device: p.cfg.Device,
		At:     time.Now(),
	}

	p.t.SetUnitID(p.cfg.Device.UnitID)

	snap, err := p.rd.Read(ctx, p.cfg.Device.Model, p.cfg.Device.VoltageMode)
	if err != nil {
		res.Err = err
	} else {
		res.Snapshot = snap
	}

	next := HealthOK
	if res.Err != nil {
		next = HealthError
	}
	res.Health = next
	res.HealthChanged = next != p.health
	p.health = next

	return res
}

// Run starts the ticker loop and emits every Result on out.
// One goroutine per device.
func (p *Poller) Run(ctx context.Context, out chan<- Result) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := p.PollOnce(ctx)
			if res.HealthChanged {
				p.log.Info().
					Uint8("unit", res.Device.UnitID).
					Stringer("health", res.Health).
					Err(res.Err).
					Msg("device health changed")
			}
			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

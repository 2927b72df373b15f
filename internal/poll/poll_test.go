// internal/poll/poll_test.go

package poll

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/model"
	"github.com/tagbridge/powertag-link/internal/reader"
)

// fakeTransport answers the contact-module registers so a poll cycle can
// complete without a gateway.
type fakeTransport struct {
	mu   sync.Mutex
	unit uint8
	fail bool
}

func (f *fakeTransport) SetUnitID(id uint8) {
	f.mu.Lock()
	f.unit = id
	f.mu.Unlock()
}

func (f *fakeTransport) ReadHoldingRegisters(start, count uint16, timeout time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, errors.New("read timeout")
	}
	buf := make([]byte, count*2)
	binary.BigEndian.PutUint16(buf, 0) // inputs read as "on"
	return buf, nil
}

func (f *fakeTransport) WriteSingleRegister(register, value uint16, timeout time.Duration) error {
	return nil
}

func contactDevice() Device {
	d, _ := model.Default().ByTypeID(122)
	return Device{UnitID: 42, Model: d}
}

func testPoller(t *testing.T, ft *fakeTransport) *Poller {
	t.Helper()
	p, err := New(Config{
		Device:      contactDevice(),
		Interval:    time.Second,
		ReadTimeout: 10 * time.Millisecond,
	}, ft, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Device: Device{UnitID: 0}, Interval: time.Second}, &fakeTransport{}, zerolog.Nop()); err == nil {
		t.Fatal("unit id 0 must be rejected")
	}
	if _, err := New(Config{Device: contactDevice()}, &fakeTransport{}, zerolog.Nop()); err == nil {
		t.Fatal("zero interval must be rejected")
	}
}

func TestPollOnce_SetsUnitID(t *testing.T) {
	ft := &fakeTransport{}
	p := testPoller(t, ft)

	res := p.PollOnce(context.Background())
	if res.Err != nil {
		t.Fatalf("PollOnce: %v", res.Err)
	}
	if ft.unit != 42 {
		t.Fatalf("unit id = %d, want 42", ft.unit)
	}
	if _, ok := res.Snapshot.(reader.Contact2DISnapshot); !ok {
		t.Fatalf("snapshot: %T", res.Snapshot)
	}
}

func TestPollOnce_HealthTransitions(t *testing.T) {
	ft := &fakeTransport{}
	p := testPoller(t, ft)

	res := p.PollOnce(context.Background())
	if res.Health != HealthOK || !res.HealthChanged {
		t.Fatalf("first cycle: %+v", res)
	}

	res = p.PollOnce(context.Background())
	if res.Health != HealthOK || res.HealthChanged {
		t.Fatalf("steady state must not re-report: %+v", res)
	}

	ft.mu.Lock()
	ft.fail = true
	ft.mu.Unlock()

	res = p.PollOnce(context.Background())
	if res.Err == nil || res.Health != HealthError || !res.HealthChanged {
		t.Fatalf("failure cycle: %+v", res)
	}
	if res.Snapshot != nil {
		t.Fatal("failed cycle must not carry a snapshot")
	}

	ft.mu.Lock()
	ft.fail = false
	ft.mu.Unlock()

	res = p.PollOnce(context.Background())
	if res.Health != HealthOK || !res.HealthChanged {
		t.Fatalf("recovery cycle: %+v", res)
	}
}

func TestRun_EmitsAndStops(t *testing.T) {
	ft := &fakeTransport{}
	p, err := New(Config{
		Device:      contactDevice(),
		Interval:    5 * time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
	}, ft, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Result)
	done := make(chan struct{})

	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	res := <-out
	if res.Err != nil {
		t.Fatalf("poll result: %v", res.Err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

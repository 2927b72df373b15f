// internal/publish/publish_test.go

package publish

import (
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/poll"
	"github.com/tagbridge/powertag-link/internal/reader"
)

type fakeToken struct{ err error }

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *fakeToken) Error() error { return t.err }

type message struct {
	topic    string
	payload  string
	retained bool
}

type fakeMQTT struct {
	msgs   []message
	pubErr error
}

func (f *fakeMQTT) IsConnected() bool       { return true }
func (f *fakeMQTT) IsConnectionOpen() bool  { return true }
func (f *fakeMQTT) Connect() mqtt.Token     { return &fakeToken{} }
func (f *fakeMQTT) Disconnect(quiesce uint) {}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.msgs = append(f.msgs, message{topic: topic, payload: payload.(string), retained: retained})
	return &fakeToken{err: f.pubErr}
}

func (f *fakeMQTT) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return &fakeToken{}
}
func (f *fakeMQTT) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return &fakeToken{}
}
func (f *fakeMQTT) Unsubscribe(...string) mqtt.Token        { return &fakeToken{} }
func (f *fakeMQTT) AddRoute(string, mqtt.MessageHandler)    {}
func (f *fakeMQTT) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }

func testPublisher(cli mqtt.Client) *Publisher {
	return &Publisher{cli: cli, prefix: "powertag", log: zerolog.Nop()}
}

func TestPublish_SnapshotAndAvailability(t *testing.T) {
	cli := &fakeMQTT{}
	p := testPublisher(cli)

	res := poll.Result{
		Device:        poll.Device{UnitID: 42},
		Snapshot:      reader.Contact2DISnapshot{Input1: true},
		Health:        poll.HealthOK,
		HealthChanged: true,
	}

	if err := p.Publish(res); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(cli.msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(cli.msgs))
	}

	avail := cli.msgs[0]
	if avail.topic != "powertag/42/availability" || avail.payload != "online" || !avail.retained {
		t.Fatalf("availability message: %+v", avail)
	}

	state := cli.msgs[1]
	if state.topic != "powertag/42/state" || state.retained {
		t.Fatalf("state message: %+v", state)
	}
	if !strings.Contains(state.payload, `"input_1":true`) {
		t.Fatalf("state payload: %s", state.payload)
	}
}

func TestPublish_FailedPollPublishesOfflineOnly(t *testing.T) {
	cli := &fakeMQTT{}
	p := testPublisher(cli)

	res := poll.Result{
		Device:        poll.Device{UnitID: 7},
		Err:           errors.New("read timeout"),
		Health:        poll.HealthError,
		HealthChanged: true,
	}

	if err := p.Publish(res); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(cli.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(cli.msgs))
	}
	if cli.msgs[0].topic != "powertag/7/availability" || cli.msgs[0].payload != "offline" {
		t.Fatalf("message: %+v", cli.msgs[0])
	}
}

func TestPublish_SteadyStateSkipsAvailability(t *testing.T) {
	cli := &fakeMQTT{}
	p := testPublisher(cli)

	res := poll.Result{
		Device:   poll.Device{UnitID: 42},
		Snapshot: reader.ControlIOSnapshot{Output: true},
		Health:   poll.HealthOK,
	}

	if err := p.Publish(res); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(cli.msgs) != 1 || cli.msgs[0].topic != "powertag/42/state" {
		t.Fatalf("messages: %+v", cli.msgs)
	}
}

func TestPublish_ErrorSurfaced(t *testing.T) {
	cli := &fakeMQTT{pubErr: errors.New("broker gone")}
	p := testPublisher(cli)

	res := poll.Result{
		Device:   poll.Device{UnitID: 42},
		Snapshot: reader.HeatTagSnapshot{Temperature: 21},
		Health:   poll.HealthOK,
	}

	if err := p.Publish(res); err == nil {
		t.Fatal("expected publish error")
	}
}

// internal/publish/publish.go

// Package publish delivers poll results to the home-automation platform
// over MQTT. Measurements go to <prefix>/<unitID>/state, availability
// transitions to <prefix>/<unitID>/availability (retained). A publish
// failure is reported but never stops the poll loop.
package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/poll"
)

const publishTimeout = 5 * time.Second

type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// Publisher is one shared MQTT connection for all device pollers.
type Publisher struct {
	cli    mqtt.Client
	prefix string
	log    zerolog.Logger
}

// Connect dials the broker. A last-will marks the whole bridge offline if
// the connection drops without a clean shutdown.
func Connect(cfg Config, log zerolog.Logger) (*Publisher, error) {
	if cfg.Broker == "" {
		return nil, errors.New("publish: broker required")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(publishTimeout).
		SetWill(cfg.TopicPrefix+"/bridge/availability", "offline", 1, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	cli := mqtt.NewClient(opts)
	if tok := cli.Connect(); !tok.WaitTimeout(publishTimeout) || tok.Error() != nil {
		err := tok.Error()
		if err == nil {
			err = errors.New("connect timeout")
		}
		return nil, fmt.Errorf("publish: broker %s: %w", cfg.Broker, err)
	}

	p := &Publisher{cli: cli, prefix: cfg.TopicPrefix, log: log}
	p.send(cfg.TopicPrefix+"/bridge/availability", "online", true)
	return p, nil
}

// Publish delivers one poll result: availability on health transitions,
// the snapshot whenever the cycle succeeded.
func (p *Publisher) Publish(res poll.Result) error {
	var errs []string

	if res.HealthChanged {
		state := "offline"
		if res.Health == poll.HealthOK {
			state = "online"
		}
		if err := p.send(p.topic(res.Device.UnitID, "availability"), state, true); err != nil {
			errs = append(errs, fmt.Sprintf("availability: %v", err))
		}
	}

	if res.Err == nil && res.Snapshot != nil {
		payload, err := json.Marshal(res.Snapshot)
		if err != nil {
			errs = append(errs, fmt.Sprintf("encode: %v", err))
		} else if err := p.send(p.topic(res.Device.UnitID, "state"), string(payload), false); err != nil {
			errs = append(errs, fmt.Sprintf("state: %v", err))
		}
	}

	if len(errs) > 0 {
		return errors.New("publish: " + strings.Join(errs, " | "))
	}
	return nil
}

// Close announces the bridge offline and disconnects.
func (p *Publisher) Close() {
	_ = p.send(p.prefix+"/bridge/availability", "offline", true)
	p.cli.Disconnect(250)
}

func (p *Publisher) topic(unitID uint8, leaf string) string {
	return fmt.Sprintf("%s/%d/%s", p.prefix, unitID, leaf)
}

func (p *Publisher) send(topic, payload string, retain bool) error {
	tok := p.cli.Publish(topic, 1, retain, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return fmt.Errorf("timeout on %s", topic)
	}
	return tok.Error()
}

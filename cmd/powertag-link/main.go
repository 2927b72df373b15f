// cmd/powertag-link/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tagbridge/powertag-link/internal/config"
	"github.com/tagbridge/powertag-link/internal/discovery"
	"github.com/tagbridge/powertag-link/internal/model"
	"github.com/tagbridge/powertag-link/internal/poll"
	"github.com/tagbridge/powertag-link/internal/publish"
	"github.com/tagbridge/powertag-link/internal/reader"
	"github.com/tagbridge/powertag-link/internal/session"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: powertag-link <discover|run> <config.yaml>")
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(os.Args[2])
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	registry := model.Default()

	switch os.Args[1] {
	case "discover":
		err = runDiscover(cfg, registry, logger)
	case "run":
		err = runBridge(cfg, registry, logger)
	default:
		fmt.Fprintln(os.Stderr, "usage: powertag-link <discover|run> <config.yaml>")
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("exiting")
	}
}

func gatewayEndpoint(cfg *config.Config) session.Endpoint {
	return session.Endpoint{Host: cfg.Gateway.Host, Port: cfg.Gateway.Port}
}

func discoveryConfig(cfg *config.Config) discovery.Config {
	dcfg := discovery.Config{
		ReadTimeout:      time.Duration(cfg.Gateway.ReadTimeoutMs) * time.Millisecond,
		TableReadTimeout: time.Duration(cfg.Gateway.TableReadTimeoutMs) * time.Millisecond,
	}
	for _, r := range cfg.Discovery.Ranges {
		dcfg.Ranges = append(dcfg.Ranges, discovery.ScanRange{
			First: r.First, Last: r.Last, Tolerance: r.Tolerance,
		})
	}
	return dcfg
}

// runDiscover enumerates the devices behind the gateway and prints them.
func runDiscover(cfg *config.Config, registry *model.Registry, logger zerolog.Logger) error {
	s, err := session.Dial(gatewayEndpoint(cfg), time.Duration(cfg.Gateway.ConnectTimeoutMs)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	devices := discovery.Discover(context.Background(), s, registry, discoveryConfig(cfg), logger)

	fmt.Printf("discovered %d device(s) behind %s\n", len(devices), gatewayEndpoint(cfg).Addr())
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("  unit %3d  type %3d  %-10s %-26s name=%s\n",
			d.UnitID, d.TypeID, d.Model.CommercialReference, d.Model.Name, name)
	}
	return nil
}

// devicePipeline is one paired device's session, poller and output access.
type devicePipeline struct {
	device poll.Device
	sess   *session.Session
	rd     *reader.Reader
}

// runBridge polls every configured device and publishes results over MQTT
// until interrupted.
func runBridge(cfg *config.Config, registry *model.Registry, logger zerolog.Logger) error {
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required for run")
	}
	if len(cfg.Devices) == 0 {
		return fmt.Errorf("no devices configured; run discover first")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pub, err := publish.Connect(publish.Config{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
	}, logger)
	if err != nil {
		return err
	}
	defer pub.Close()

	readTimeout := time.Duration(cfg.Gateway.ReadTimeoutMs) * time.Millisecond
	connectTimeout := time.Duration(cfg.Gateway.ConnectTimeoutMs) * time.Millisecond
	interval := time.Duration(cfg.Poll.IntervalMs) * time.Millisecond

	// --------------------
	// Build per-device pipelines: one session each, never shared.
	// --------------------

	pipelines := make(map[uint8]*devicePipeline)
	out := make(chan poll.Result)

	for _, dc := range cfg.Devices {
		device, err := buildDevice(dc, registry)
		if err != nil {
			return err
		}

		s, err := session.Dial(gatewayEndpoint(cfg), connectTimeout, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := poll.New(poll.Config{
			Device:      device,
			Interval:    interval,
			ReadTimeout: readTimeout,
		}, s, logger)
		if err != nil {
			return err
		}

		pipelines[device.UnitID] = &devicePipeline{
			device: device,
			sess:   s,
			rd:     reader.New(s, readTimeout),
		}

		logger.Info().
			Uint8("unit", device.UnitID).
			Str("model", device.Model.Name).
			Msg("polling device")

		go p.Run(ctx, out)
	}

	// --------------------
	// Output commands from the platform (control modules only).
	// --------------------

	err = pub.SubscribeOutputs(func(unitID uint8, on bool) {
		pl, ok := pipelines[unitID]
		if !ok || pl.device.Model.Family != model.FamilyControlIO {
			logger.Warn().Uint8("unit", unitID).Msg("set command for non-output device")
			return
		}
		pl.sess.SetUnitID(unitID)
		if err := pl.rd.WriteOutput(on); err != nil {
			logger.Error().Err(err).Uint8("unit", unitID).Msg("output write failed")
		}
	})
	if err != nil {
		return err
	}

	// --------------------
	// Deliver poll results until interrupted.
	// --------------------

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down")
			return nil
		case res := <-out:
			if err := pub.Publish(res); err != nil {
				logger.Error().Err(err).Uint8("unit", res.Device.UnitID).Msg("publish failed")
			}
		}
	}
}

// buildDevice resolves one configured device against the model registry.
func buildDevice(dc config.DeviceConfig, registry *model.Registry) (poll.Device, error) {
	var desc model.Descriptor
	var ok bool

	if dc.TypeID != 0 {
		desc, ok = registry.ByTypeID(dc.TypeID)
	} else {
		desc, ok = registry.ByCommercialReference(dc.CommercialReference)
	}
	if !ok {
		return poll.Device{}, fmt.Errorf("device unit %d: unknown model (type_id=%d reference=%q)",
			dc.UnitID, dc.TypeID, dc.CommercialReference)
	}

	mode := desc.DefaultVoltageMode()
	switch dc.VoltageMode {
	case "l-n":
		if !desc.SupportsLN {
			return poll.Device{}, fmt.Errorf("device unit %d: %s does not support L-N voltage", dc.UnitID, desc.Name)
		}
		mode = model.VoltageLN
	case "l-l":
		if !desc.SupportsLL {
			return poll.Device{}, fmt.Errorf("device unit %d: %s does not support L-L voltage", dc.UnitID, desc.Name)
		}
		mode = model.VoltageLL
	}

	return poll.Device{
		UnitID:      dc.UnitID,
		Model:       desc,
		VoltageMode: mode,
		Name:        dc.Name,
	}, nil
}

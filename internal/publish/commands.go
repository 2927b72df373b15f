// internal/publish/commands.go

package publish

import (
	"strconv"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// OutputHandler switches a control module's output.
type OutputHandler func(unitID uint8, on bool)

// SubscribeOutputs routes <prefix>/<unitID>/set messages with payload
// "on" or "off" to the handler. Malformed topics and payloads are logged
// and dropped.
func (p *Publisher) SubscribeOutputs(handle OutputHandler) error {
	topic := p.prefix + "/+/set"

	tok := p.cli.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		unitID, on, ok := parseSet(p.prefix, msg.Topic(), string(msg.Payload()))
		if !ok {
			p.log.Warn().Str("topic", msg.Topic()).Str("payload", string(msg.Payload())).
				Msg("ignoring malformed set command")
			return
		}
		handle(unitID, on)
	})
	if !tok.WaitTimeout(publishTimeout) {
		return &subscribeTimeoutError{topic: topic}
	}
	return tok.Error()
}

type subscribeTimeoutError struct{ topic string }

func (e *subscribeTimeoutError) Error() string {
	return "publish: subscribe timeout on " + e.topic
}

func parseSet(prefix, topic, payload string) (unitID uint8, on bool, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != prefix || parts[2] != "set" {
		return 0, false, false
	}

	id, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || id < 1 || id > 247 {
		return 0, false, false
	}

	switch payload {
	case "on":
		on = true
	case "off":
		on = false
	default:
		return 0, false, false
	}
	return uint8(id), on, true
}

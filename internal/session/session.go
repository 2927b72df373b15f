// internal/session/session.go

// Package session owns one Modbus-TCP connection to a gateway and the
// unit id addressed by requests on it.
//
// The gateway multiplexes many logical devices over one TCP connection;
// the unit id is session state, not a request field. SetUnitID and the
// request methods share one mutex so a unit-id change can never race an
// in-flight transaction. Discovery and each device poller dial their own
// session; sessions are never shared across devices.
package session

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/rs/zerolog"
)

// MaxRegistersPerRead is the function-code-3 protocol ceiling. Callers
// reading larger areas (the Panel Server address table) must chunk.
const MaxRegistersPerRead = 125

// GatewayUnitID is the reserved unit id of the gateway itself.
const GatewayUnitID uint8 = 255

// Endpoint identifies the TCP target of a session.
type Endpoint struct {
	Host string
	Port uint16
}

func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
}

// Session is one connected gateway transport. Safe for concurrent use;
// transactions are serialized internally.
type Session struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
	unitID  uint8
	closed  bool
	log     zerolog.Logger
}

// Dial opens a TCP connection to the gateway. Connection errors carry the
// host:port and are classified timeout vs refused.
func Dial(ep Endpoint, connectTimeout time.Duration, log zerolog.Logger) (*Session, error) {
	h := modbus.NewTCPClientHandler(ep.Addr())
	h.Timeout = connectTimeout

	if err := h.Connect(); err != nil {
		cerr := classify("connect", err)
		return nil, fmt.Errorf("gateway %s: %w", ep.Addr(), cerr)
	}

	log.Debug().Str("gateway", ep.Addr()).Msg("session connected")

	return &Session{
		handler: h,
		client:  modbus.NewClient(h),
		log:     log,
	}, nil
}

// SetUnitID selects the device addressed by subsequent requests. No I/O.
func (s *Session) SetUnitID(id uint8) {
	s.mu.Lock()
	s.unitID = id
	s.mu.Unlock()
}

// ReadHoldingRegisters issues one function-code-3 transaction against the
// currently-selected unit id and returns the raw big-endian register bytes.
func (s *Session) ReadHoldingRegisters(start, count uint16, timeout time.Duration) ([]byte, error) {
	if count == 0 || count > MaxRegistersPerRead {
		return nil, fmt.Errorf("session: register count %d out of range 1..%d", count, MaxRegistersPerRead)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, &Error{Kind: KindConnection, Op: "read", cause: errClosed}
	}

	s.handler.SlaveId = s.unitID
	s.handler.Timeout = timeout

	buf, err := s.client.ReadHoldingRegisters(start, count)
	if err != nil {
		return nil, classify("read", err)
	}
	if len(buf) != int(count)*2 {
		return nil, fmt.Errorf("session: short response: got %d bytes, want %d", len(buf), int(count)*2)
	}
	return buf, nil
}

// WriteSingleRegister issues one function-code-6 transaction against the
// currently-selected unit id.
func (s *Session) WriteSingleRegister(register, value uint16, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &Error{Kind: KindConnection, Op: "write", cause: errClosed}
	}

	s.handler.SlaveId = s.unitID
	s.handler.Timeout = timeout

	if _, err := s.client.WriteSingleRegister(register, value); err != nil {
		return classify("write", err)
	}
	return nil
}

// Close releases the TCP connection. Idempotent; safe after any failure.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Debug().Msg("session closed")
	return s.handler.Close()
}

var errClosed = fmt.Errorf("session closed")

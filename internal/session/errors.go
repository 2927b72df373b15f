// internal/session/errors.go

package session

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/goburrow/modbus"
)

// Kind classifies a transport error. During discovery a timeout is the
// primary "no device at this unit id" signal; an exception response is
// surfaced distinctly for diagnostics but treated the same way by callers.
type Kind int

const (
	KindConnection Kind = iota // dial refused / connection dropped
	KindTimeout                // no response within the per-request timeout
	KindException              // Modbus exception response from the remote
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindException:
		return "exception"
	}
	return "connection"
}

// Error is a classified transport error.
type Error struct {
	Kind      Kind
	Op        string
	Exception uint8 // set when Kind == KindException
	cause     error
}

func (e *Error) Error() string {
	if e.Kind == KindException {
		return fmt.Sprintf("session: %s: modbus exception %d", e.Op, e.Exception)
	}
	return fmt.Sprintf("session: %s: %s: %v", e.Op, e.Kind, e.cause)
}

func (e *Error) Unwrap() error { return e.cause }

// Code exposes the exception code for generic error reporting.
func (e *Error) Code() uint16 { return uint16(e.Exception) }

// IsTimeout reports whether err is a classified request timeout.
func IsTimeout(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindTimeout
}

// IsException reports whether err is a Modbus exception response and
// returns its code.
func IsException(err error) (uint8, bool) {
	var se *Error
	if errors.As(err, &se) && se.Kind == KindException {
		return se.Exception, true
	}
	return 0, false
}

// IsNoDevice reports whether err carries either "absent device" signal
// (timeout or exception). The original gateways answer both ways and the
// two are deliberately not told apart beyond logging.
func IsNoDevice(err error) bool {
	if IsTimeout(err) {
		return true
	}
	_, ok := IsException(err)
	return ok
}

// classify wraps a goburrow/modbus or net error into a *Error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return &Error{Kind: KindException, Op: op, Exception: mbErr.ExceptionCode, cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Op: op, cause: err}
	}

	// goburrow returns bare EOF when the gateway drops the connection.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: KindConnection, Op: op, cause: err}
	}

	return &Error{Kind: KindConnection, Op: op, cause: err}
}

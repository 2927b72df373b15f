// internal/wire/wire.go

// Package wire decodes raw holding-register buffers into domain values.
// Buffers are big-endian byte slices exactly as returned by a Modbus
// read-holding-registers transaction. No I/O, no state.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Float32 decodes an IEEE-754 big-endian 32-bit float at offset and widens
// it to float64. PowerTag devices report absent phases as NaN; NaN is passed
// through untouched.
func Float32(buf []byte, offset int) (float64, error) {
	if err := bounds(buf, offset, 4); err != nil {
		return 0, err
	}
	bits := binary.BigEndian.Uint32(buf[offset:])
	return float64(math.Float32frombits(bits)), nil
}

// Uint16 decodes a big-endian 16-bit unsigned integer at offset.
func Uint16(buf []byte, offset int) (uint16, error) {
	if err := bounds(buf, offset, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[offset:]), nil
}

// ScaledInt64 decodes a signed big-endian 64-bit integer at offset and
// divides it by divisor. Cumulative energy is stored in Wh; divisor 1000
// yields kWh.
func ScaledInt64(buf []byte, offset int, divisor float64) (float64, error) {
	if err := bounds(buf, offset, 8); err != nil {
		return 0, err
	}
	if divisor == 0 {
		return 0, fmt.Errorf("wire: zero divisor")
	}
	raw := int64(binary.BigEndian.Uint64(buf[offset:]))
	return float64(raw) / divisor, nil
}

// FixedASCII interprets buf as a fixed-length ASCII field: bytes up to the
// first NUL (or the end of the buffer), with leading and trailing whitespace
// trimmed. Non-printable bytes are passed through; only whitespace is trimmed.
func FixedASCII(buf []byte) string {
	end := len(buf)
	for i, b := range buf {
		if b == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(buf[:end]))
}

func bounds(buf []byte, offset, width int) error {
	if offset < 0 || offset+width > len(buf) {
		return fmt.Errorf("wire: buffer too short: need %d bytes at offset %d, have %d", width, offset, len(buf))
	}
	return nil
}

// internal/wire/wire_test.go

package wire

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestFixedASCII_StopsAtNul(t *testing.T) {
	buf := make([]byte, 32)
	copy(buf, "A9MEM1560")

	if got := FixedASCII(buf); got != "A9MEM1560" {
		t.Fatalf("got %q, want %q", got, "A9MEM1560")
	}
}

func TestFixedASCII_TrimsWhitespace(t *testing.T) {
	if got := FixedASCII([]byte("  Kitchen oven \x00\x00")); got != "Kitchen oven" {
		t.Fatalf("got %q", got)
	}
}

func TestFixedASCII_NoNul(t *testing.T) {
	if got := FixedASCII([]byte("ABCD")); got != "ABCD" {
		t.Fatalf("got %q", got)
	}
}

func TestFixedASCII_NonPrintablePassThrough(t *testing.T) {
	// Only whitespace is trimmed; a control byte in the middle stays.
	got := FixedASCII([]byte{'A', 0x07, 'B', 0x00})
	if got != "A\x07B" {
		t.Fatalf("got %q", got)
	}
}

func TestFixedASCII_Empty(t *testing.T) {
	if got := FixedASCII([]byte{0, 0, 0, 0}); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestFloat32(t *testing.T) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, math.Float32bits(230.25))

	v, err := Float32(buf, 0)
	if err != nil {
		t.Fatalf("Float32: %v", err)
	}
	if v != 230.25 {
		t.Fatalf("got %v, want 230.25", v)
	}
}

func TestFloat32_NaNPassThrough(t *testing.T) {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, math.Float32bits(float32(math.NaN())))

	v, err := Float32(buf, 0)
	if err != nil {
		t.Fatalf("Float32: %v", err)
	}
	if !math.IsNaN(v) {
		t.Fatalf("got %v, want NaN", v)
	}
}

func TestFloat32_ShortBuffer(t *testing.T) {
	if _, err := Float32(make([]byte, 6), 4); err == nil {
		t.Fatal("expected error on short buffer")
	}
}

func TestUint16(t *testing.T) {
	v, err := Uint16([]byte{0x00, 0x2A, 0xFF, 0xFF}, 2)
	if err != nil {
		t.Fatalf("Uint16: %v", err)
	}
	if v != 0xFFFF {
		t.Fatalf("got %d, want 65535", v)
	}
}

func TestUint16_ShortBuffer(t *testing.T) {
	if _, err := Uint16([]byte{0x01}, 0); err == nil {
		t.Fatal("expected error on short buffer")
	}
}

func TestScaledInt64_EnergyWhToKWh(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, 5000) // 5000 Wh

	v, err := ScaledInt64(buf, 0, 1000)
	if err != nil {
		t.Fatalf("ScaledInt64: %v", err)
	}
	if v != 5.0 {
		t.Fatalf("got %v, want 5.0 kWh", v)
	}
}

func TestScaledInt64_Negative(t *testing.T) {
	buf := make([]byte, 8)
	n := int64(-1500)
	binary.BigEndian.PutUint64(buf, uint64(n))

	v, err := ScaledInt64(buf, 0, 1000)
	if err != nil {
		t.Fatalf("ScaledInt64: %v", err)
	}
	if v != -1.5 {
		t.Fatalf("got %v, want -1.5", v)
	}
}

func TestScaledInt64_ShortBuffer(t *testing.T) {
	if _, err := ScaledInt64(make([]byte, 7), 0, 1000); err == nil {
		t.Fatal("expected error on short buffer")
	}
}

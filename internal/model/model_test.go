// internal/model/model_test.go

package model

import "testing"

func TestByTypeID(t *testing.T) {
	reg := Default()

	d, ok := reg.ByTypeID(45)
	if !ok {
		t.Fatal("type 45 not found")
	}
	if d.CommercialReference != "A9MEM1541" {
		t.Fatalf("got %q, want A9MEM1541", d.CommercialReference)
	}
	if d.Family != FamilyEnergy || d.PhaseCount != 3 {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestByTypeID_Unknown(t *testing.T) {
	if _, ok := Default().ByTypeID(9999); ok {
		t.Fatal("expected miss for unknown type id")
	}
}

func TestByCommercialReference_Exact(t *testing.T) {
	d, ok := Default().ByCommercialReference("A9MEM1560")
	if !ok {
		t.Fatal("A9MEM1560 not found")
	}
	if d.TypeID != 81 {
		t.Fatalf("got type %d, want 81", d.TypeID)
	}
}

func TestByCommercialReference_PrefixVariant(t *testing.T) {
	d, ok := Default().ByCommercialReference("A9MEM1541C")
	if !ok {
		t.Fatal("variant reference did not resolve")
	}
	if d.CommercialReference != "A9MEM1541" {
		t.Fatalf("resolved to %q", d.CommercialReference)
	}
}

func TestByCommercialReference_Empty(t *testing.T) {
	if _, ok := Default().ByCommercialReference(""); ok {
		t.Fatal("empty reference must not resolve")
	}
}

func TestByCommercialReference_Unknown(t *testing.T) {
	if _, ok := Default().ByCommercialReference("XYZ999"); ok {
		t.Fatal("unknown reference must not resolve")
	}
}

func TestDefaultVoltageMode(t *testing.T) {
	reg := Default()

	// 3P without neutral: L-L only.
	d, _ := reg.ByTypeID(44)
	if d.DefaultVoltageMode() != VoltageLL {
		t.Fatalf("A9MEM1540 default mode = %v, want L-L", d.DefaultVoltageMode())
	}

	// 1P+N: L-N.
	d, _ = reg.ByTypeID(41)
	if d.DefaultVoltageMode() != VoltageLN {
		t.Fatalf("A9MEM1520 default mode = %v, want L-N", d.DefaultVoltageMode())
	}

	// Non-energy family: none.
	d, _ = reg.ByTypeID(122)
	if d.DefaultVoltageMode() != VoltageNone {
		t.Fatalf("A9XMC2D3 default mode = %v, want none", d.DefaultVoltageMode())
	}
}

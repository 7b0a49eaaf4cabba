package bytecode

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Catalogue metadata tests
// ---------------------------------------------------------------------------

func TestGateInfo(t *testing.T) {
	tests := []struct {
		gate       Gate
		name       string
		numParams  int
		numTargets int
		class      GateClass
	}{
		{GateI, "I", 0, 1, ClassSingle},
		{GateH, "H", 0, 1, ClassSingle},
		{GateX, "X", 0, 1, ClassSingle},
		{GateY, "Y", 0, 1, ClassSingle},
		{GateZ, "Z", 0, 1, ClassSingle},
		{GateXPOW, "XPOW", 1, 1, ClassSingle},
		{GateS, "S", 0, 1, ClassSingle},
		{GateSD, "SD", 0, 1, ClassSingle},
		{GateT, "T", 0, 1, ClassSingle},
		{GateTD, "TD", 0, 1, ClassSingle},
		{GateP, "P", 1, 1, ClassSingle},
		{GateRX, "RX", 1, 1, ClassSingle},
		{GateRY, "RY", 1, 1, ClassSingle},
		{GateRZ, "RZ", 1, 1, ClassSingle},
		{GateRN, "RN", 4, 1, ClassSingle},
		{GateU, "U", 3, 1, ClassSingle},
		{GateCX, "CX", 0, 2, ClassDouble},
		{GateCY, "CY", 0, 2, ClassDouble},
		{GateCZ, "CZ", 0, 2, ClassDouble},
		{GateCH, "CH", 0, 2, ClassDouble},
		{GateCP, "CP", 1, 2, ClassDouble},
		{GateSWP, "SWP", 0, 2, ClassDouble},
		{GateSSWP, "SSWP", 0, 2, ClassDouble},
		{GateISWP, "ISWP", 0, 2, ClassDouble},
		{GateCAN, "CAN", 3, 2, ClassDouble},
		{GateCCX, "CCX", 0, 3, ClassTriple},
		{GateCSWP, "CSWP", 0, 3, ClassTriple},
	}

	for _, tt := range tests {
		info := tt.gate.Info()
		if info.Name != tt.name {
			t.Errorf("%s: Name = %q, want %q", tt.gate, info.Name, tt.name)
		}
		if info.NumParams != tt.numParams {
			t.Errorf("%s: NumParams = %d, want %d", tt.name, info.NumParams, tt.numParams)
		}
		if info.NumTargets != tt.numTargets {
			t.Errorf("%s: NumTargets = %d, want %d", tt.name, info.NumTargets, tt.numTargets)
		}
		if info.Class != tt.class {
			t.Errorf("%s: Class = %d, want %d", tt.name, info.Class, tt.class)
		}
	}
}

func TestGateWireValues(t *testing.T) {
	// The wire values are fixed by the upstream compiler.
	if GateI != 0x00 || GateH != 0x01 || GateRX != 0x0f || GateCX != 0x14 ||
		GateISWP != 0x1c || GateCCX != 0x21 || GateCSWP != 0x22 {
		t.Fatal("gate wire values must not change")
	}
}

func TestUnknownGate(t *testing.T) {
	g := Gate(0xEE)
	if g.Known() {
		t.Error("0xEE should not be a known gate")
	}
	if !strings.HasPrefix(g.Info().Name, "UNKNOWN_") {
		t.Errorf("unknown gate should have UNKNOWN_ prefix, got %q", g.Info().Name)
	}
}

func TestIsAvailable(t *testing.T) {
	// IsAvailable advertises the FULL catalogue, including gates the
	// driver cannot execute.
	for _, name := range []string{
		"I", "H", "X", "Y", "Z", "XPOW", "YPOW", "ZPOW", "S", "SD", "T",
		"TD", "V", "VD", "P", "RX", "RY", "RZ", "RN", "U", "CX", "CY",
		"CZ", "CH", "CP", "SWP", "SSWP", "SSWPD", "ISWP", "ISWPD",
		"SISWP", "SISWPD", "CAN", "CCX", "CSWP",
	} {
		if !IsAvailable(name) {
			t.Errorf("IsAvailable(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "QQ", "h", "CNOT", "TOFFOLI"} {
		if IsAvailable(name) {
			t.Errorf("IsAvailable(%q) = true, want false", name)
		}
	}
}

func TestGatesOrder(t *testing.T) {
	names := Gates()
	if len(names) != 35 {
		t.Fatalf("len(Gates()) = %d, want 35", len(names))
	}
	if names[0] != "I" || names[1] != "H" || names[34] != "CSWP" {
		t.Errorf("Gates() not in wire order: %v", names)
	}
}

func TestPrimitiveOpcodeString(t *testing.T) {
	if OpAlloc.String() != "ALLOC" || OpReset.String() != "RESET" || OpMeasure.String() != "MEASURE" {
		t.Error("primitive mnemonics wrong")
	}
	if !strings.HasPrefix(PrimitiveOpcode(9).String(), "UNKNOWN_") {
		t.Error("unknown primitive should have UNKNOWN_ prefix")
	}
}

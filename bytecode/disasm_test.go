package bytecode

import (
	"strings"
	"testing"
)

func TestDisassemble(t *testing.T) {
	instrs := []Instruction{
		Primitive(OpAlloc, UintParam(2)),
		StandardGate(GateRX, []Param{FloatParam(0.5)}, []uint32{1}),
		Primitive(OpMeasure, UintParam(0), UintParam(1)),
	}
	listing := Disassemble(instrs)

	lines := strings.Split(strings.TrimRight(listing, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "ALLOC 2") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "RX(0.5) [1]") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "MEASURE 0, 1") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestHexString(t *testing.T) {
	got := HexString([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	if got != "01 02 03 04  05" {
		t.Errorf("HexString = %q", got)
	}
	if HexString(nil) != "" {
		t.Error("empty input should format to empty string")
	}
}

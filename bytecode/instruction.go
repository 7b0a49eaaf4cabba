package bytecode

import (
	"fmt"
	"math"
	"strings"
)

// ---------------------------------------------------------------------------
// Instruction parameters
// ---------------------------------------------------------------------------

// Param is a single 8-byte instruction parameter cell. The wire carries raw
// bits; whether a cell is a float or an unsigned integer is determined by
// the slot it fills (Alloc's count is an integer, RX's angle is a float),
// so the decoder stores the bits and the dispatcher picks the view.
type Param uint64

// Uint returns the cell interpreted as an unsigned 64-bit integer.
func (p Param) Uint() uint64 {
	return uint64(p)
}

// Float returns the cell interpreted as an IEEE-754 double.
func (p Param) Float() float64 {
	return math.Float64frombits(uint64(p))
}

// FloatParam builds a parameter cell from a float value.
func FloatParam(v float64) Param {
	return Param(math.Float64bits(v))
}

// UintParam builds a parameter cell from an unsigned integer value.
func UintParam(v uint64) Param {
	return Param(v)
}

// ---------------------------------------------------------------------------
// Instructions
// ---------------------------------------------------------------------------

// Instruction is one decoded bytecode instruction. It is a tagged sum over
// the three wire kinds; the fields beyond Kind are populated according to
// the tag.
type Instruction struct {
	Kind Kind

	// Primitive fields
	Opcode PrimitiveOpcode
	Params []Param

	// StandardGate fields (Params is shared with Primitive)
	Gate    Gate
	Targets []uint32
}

// Nop returns a no-op instruction.
func Nop() Instruction {
	return Instruction{Kind: KindNop}
}

// Primitive returns a primitive instruction.
func Primitive(op PrimitiveOpcode, params ...Param) Instruction {
	return Instruction{Kind: KindPrimitive, Opcode: op, Params: params}
}

// StandardGate returns a standard-gate instruction.
func StandardGate(gate Gate, params []Param, targets []uint32) Instruction {
	return Instruction{Kind: KindStandardGate, Gate: gate, Params: params, Targets: targets}
}

// String renders the instruction the way the disassembler prints it.
func (in Instruction) String() string {
	switch in.Kind {
	case KindNop:
		return "NOP"
	case KindPrimitive:
		if len(in.Params) == 0 {
			return in.Opcode.String()
		}
		parts := make([]string, len(in.Params))
		for i, p := range in.Params {
			parts[i] = fmt.Sprintf("%d", p.Uint())
		}
		return fmt.Sprintf("%s %s", in.Opcode, strings.Join(parts, ", "))
	case KindStandardGate:
		info := in.Gate.Info()
		if len(in.Params) == 0 {
			return fmt.Sprintf("%s %v", info.Name, in.Targets)
		}
		parts := make([]string, len(in.Params))
		for i, p := range in.Params {
			parts[i] = fmt.Sprintf("%g", p.Float())
		}
		return fmt.Sprintf("%s(%s) %v", info.Name, strings.Join(parts, ", "), in.Targets)
	}
	return in.Kind.String()
}

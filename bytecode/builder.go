package bytecode

import "encoding/binary"

// ---------------------------------------------------------------------------
// Builder: instruction list -> wire bytes
// ---------------------------------------------------------------------------

// Builder assembles the wire encoding the decoder consumes. It is the
// compiler-facing half of the format and the test-fixture workhorse.
type Builder struct {
	buf []byte
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Nop emits a no-op instruction.
func (b *Builder) Nop() *Builder {
	b.buf = append(b.buf, byte(KindNop))
	return b
}

// Primitive emits a primitive instruction with its parameter cells.
func (b *Builder) Primitive(op PrimitiveOpcode, params ...Param) *Builder {
	b.buf = append(b.buf, byte(KindPrimitive), byte(op))
	b.params(params)
	return b
}

// Alloc emits ALLOC with a qubit count.
func (b *Builder) Alloc(numQubits uint64) *Builder {
	return b.Primitive(OpAlloc, UintParam(numQubits))
}

// Reset emits RESET for the listed qubits.
func (b *Builder) Reset(qubits ...uint64) *Builder {
	params := make([]Param, len(qubits))
	for i, q := range qubits {
		params[i] = UintParam(q)
	}
	return b.Primitive(OpReset, params...)
}

// Measure emits MEASURE for the listed qubits.
func (b *Builder) Measure(qubits ...uint64) *Builder {
	params := make([]Param, len(qubits))
	for i, q := range qubits {
		params[i] = UintParam(q)
	}
	return b.Primitive(OpMeasure, params...)
}

// Gate emits a standard-gate instruction.
func (b *Builder) Gate(gate Gate, params []Param, targets ...uint32) *Builder {
	b.buf = append(b.buf, byte(KindStandardGate), byte(gate))
	b.params(params)
	b.buf = append(b.buf, byte(len(targets)))
	for _, t := range targets {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, t)
	}
	return b
}

// Instruction emits an already-built Instruction value.
func (b *Builder) Instruction(in Instruction) *Builder {
	switch in.Kind {
	case KindNop:
		return b.Nop()
	case KindPrimitive:
		return b.Primitive(in.Opcode, in.Params...)
	case KindStandardGate:
		return b.Gate(in.Gate, in.Params, in.Targets...)
	}
	return b
}

// Raw appends bytes verbatim, for malformed-stream fixtures.
func (b *Builder) Raw(bytes ...byte) *Builder {
	b.buf = append(b.buf, bytes...)
	return b
}

// Bytes returns the assembled stream.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the current stream length.
func (b *Builder) Len() int {
	return len(b.buf)
}

func (b *Builder) params(params []Param) {
	b.buf = append(b.buf, byte(len(params)))
	for _, p := range params {
		b.buf = binary.LittleEndian.AppendUint64(b.buf, uint64(p))
	}
}

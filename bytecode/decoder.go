package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Decode errors
// ---------------------------------------------------------------------------

var (
	// ErrUnexpectedEOF reports a stream that ends inside a field.
	ErrUnexpectedEOF = errors.New("unexpected end of bytecode")

	// ErrInvalidKind reports an instruction-kind tag outside {0, 1, 2}.
	ErrInvalidKind = errors.New("invalid instruction kind")

	// ErrInvalidPrimitive reports a primitive opcode outside the supported
	// set.
	ErrInvalidPrimitive = errors.New("invalid primitive opcode")
)

// ParseError wraps a decode failure with the byte offset of the instruction
// it occurred in.
type ParseError struct {
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bytecode parse error at offset %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ---------------------------------------------------------------------------
// Decoder: byte stream -> typed instruction list
// ---------------------------------------------------------------------------

// Decoder parses a raw bytecode slice into instructions. It applies purely
// structural rules: arity validation against the catalogue belongs to the
// dispatcher, and unknown gate identifiers are consumed here and rejected
// there.
type Decoder struct {
	data   []byte
	offset int
}

// NewDecoder creates a Decoder over data. The slice is not copied.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Decode parses every instruction in the stream, preserving source order.
// Multi-byte fields are little-endian on the wire.
func Decode(data []byte) ([]Instruction, error) {
	return NewDecoder(data).Decode()
}

// Decode parses the remaining stream into an instruction list.
func (d *Decoder) Decode() ([]Instruction, error) {
	var instructions []Instruction
	for d.offset < len(d.data) {
		in, err := d.decodeInstruction()
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, in)
	}
	return instructions, nil
}

func (d *Decoder) decodeInstruction() (Instruction, error) {
	start := d.offset
	kind, err := d.readUint8()
	if err != nil {
		return Instruction{}, d.fail(start, err)
	}

	switch Kind(kind) {
	case KindNop:
		return Nop(), nil

	case KindPrimitive:
		opcode, err := d.readUint8()
		if err != nil {
			return Instruction{}, d.fail(start, err)
		}
		if PrimitiveOpcode(opcode) > maxPrimitiveOpcode {
			return Instruction{}, d.fail(start, fmt.Errorf("%w: %d", ErrInvalidPrimitive, opcode))
		}
		params, err := d.readParams()
		if err != nil {
			return Instruction{}, d.fail(start, err)
		}
		return Primitive(PrimitiveOpcode(opcode), params...), nil

	case KindStandardGate:
		// Unknown gate values decode fine; the dispatcher rejects them.
		gate, err := d.readUint8()
		if err != nil {
			return Instruction{}, d.fail(start, err)
		}
		params, err := d.readParams()
		if err != nil {
			return Instruction{}, d.fail(start, err)
		}
		targets, err := d.readTargets()
		if err != nil {
			return Instruction{}, d.fail(start, err)
		}
		return StandardGate(Gate(gate), params, targets), nil
	}

	return Instruction{}, d.fail(start, fmt.Errorf("%w: %d", ErrInvalidKind, kind))
}

// readParams reads a count byte followed by that many 8-byte cells.
func (d *Decoder) readParams() ([]Param, error) {
	count, err := d.readUint8()
	if err != nil {
		return nil, err
	}
	params := make([]Param, count)
	for i := range params {
		cell, err := d.readUint64()
		if err != nil {
			return nil, err
		}
		params[i] = Param(cell)
	}
	return params, nil
}

// readTargets reads a count byte followed by that many 4-byte qubit
// addresses. The address width is fixed by the catalogue configuration of
// the upstream compiler.
func (d *Decoder) readTargets() ([]uint32, error) {
	count, err := d.readUint8()
	if err != nil {
		return nil, err
	}
	targets := make([]uint32, count)
	for i := range targets {
		addr, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		targets[i] = addr
	}
	return targets, nil
}

func (d *Decoder) readUint8() (byte, error) {
	if d.offset+1 > len(d.data) {
		return 0, ErrUnexpectedEOF
	}
	v := d.data[d.offset]
	d.offset++
	return v, nil
}

func (d *Decoder) readUint32() (uint32, error) {
	if d.offset+4 > len(d.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(d.data[d.offset:])
	d.offset += 4
	return v, nil
}

func (d *Decoder) readUint64() (uint64, error) {
	if d.offset+8 > len(d.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(d.data[d.offset:])
	d.offset += 8
	return v, nil
}

// fail attaches the offset of the instruction being decoded unless err is
// already positioned.
func (d *Decoder) fail(start int, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Offset: start, Err: err}
}

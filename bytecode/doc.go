// Package bytecode implements the binary instruction format the upstream
// compiler emits: a typed instruction model, the gate catalogue, and the
// decoder, encoder and disassembler for the wire encoding.
//
// The stream is a concatenation of variable-length instructions, each
// starting with a one-byte kind tag. Multi-byte fields are little-endian;
// parameter cells are 8 raw bytes whose interpretation (float or unsigned
// integer) is fixed by the slot they fill, and qubit addresses are 4-byte
// unsigned integers.
//
// Decoding is purely structural: it reports truncation, unknown kind tags
// and out-of-range primitive opcodes, but leaves arity validation and
// unknown gate identifiers to the execution dispatcher.
package bytecode

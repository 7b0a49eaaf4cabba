package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a decoded program, one
// instruction per line.
func Disassemble(instructions []Instruction) string {
	var sb strings.Builder
	for i, in := range instructions {
		sb.WriteString(fmt.Sprintf("%4d  %s\n", i, in))
	}
	return sb.String()
}

// HexString formats raw bytecode the way the debug log prints it: bytes in
// groups of four, eight groups per line.
func HexString(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			if i%32 == 0 {
				sb.WriteString("\n")
			} else if i%4 == 0 {
				sb.WriteString("  ")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(fmt.Sprintf("%02x", b))
	}
	return sb.String()
}

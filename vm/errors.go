package vm

import (
	"errors"
	"fmt"

	"github.com/HarryLiGameTech/StateQ/bytecode"
)

// ---------------------------------------------------------------------------
// Execution-domain errors
// ---------------------------------------------------------------------------

// ProgramError reports a semantic failure of the quantum program itself,
// such as touching the register before Alloc or addressing a qubit outside
// it.
type ProgramError struct {
	Message string
}

func (e *ProgramError) Error() string {
	return e.Message
}

// ArityError reports a gate whose parameter count does not match its
// catalogue descriptor.
type ArityError struct {
	Gate     string
	Expected int
	Actual   int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Gate %s expected %d parameters, got %d parameters",
		e.Gate, e.Expected, e.Actual)
}

// TargetSizeError reports a gate whose target count does not match its
// catalogue descriptor.
type TargetSizeError struct {
	Gate     string
	Expected int
	Actual   int
}

func (e *TargetSizeError) Error() string {
	return fmt.Sprintf("The target size of gate %s is %d, got %d",
		e.Gate, e.Expected, e.Actual)
}

// UnsupportedGateError reports a catalogue gate outside the execution
// subset.
type UnsupportedGateError struct {
	Gate string
}

func (e *UnsupportedGateError) Error() string {
	return fmt.Sprintf("Unsupported gate %s", e.Gate)
}

// errNotInitialized is the uninitialised-register failure; the message is
// part of the observable diagnostic surface.
func errNotInitialized() error {
	return &ProgramError{Message: "Qubits are not initialized"}
}

// isExecutionError reports whether err belongs to the execution domain
// (exec error code 1) rather than the unclassified bucket (255).
func isExecutionError(err error) bool {
	var (
		programErr     *ProgramError
		arityErr       *ArityError
		targetSizeErr  *TargetSizeError
		unsupportedErr *UnsupportedGateError
	)
	return errors.As(err, &programErr) ||
		errors.As(err, &arityErr) ||
		errors.As(err, &targetSizeErr) ||
		errors.As(err, &unsupportedErr)
}

// isParseError reports whether err is a bytecode decode failure (exec
// error code 2).
func isParseError(err error) bool {
	var parseErr *bytecode.ParseError
	return errors.As(err, &parseErr)
}

// Classify maps an error onto the wire error code: 0 success, 2 decode
// failure, 1 execution-domain failure, 255 anything else.
func Classify(err error) uint8 {
	switch {
	case err == nil:
		return ErrCodeOK
	case isParseError(err):
		return ErrCodeParse
	case isExecutionError(err):
		return ErrCodeExecute
	default:
		return ErrCodeUnknown
	}
}

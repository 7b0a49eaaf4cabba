// Package kernel defines the capability surface the execution driver uses
// to talk to a state-vector simulator. The interface is deliberately
// minimal so the backing implementation can be swapped (testing doubles,
// alternative linear-algebra backends) without touching the driver.
package kernel

// Kernel creates qubit registers.
type Kernel interface {
	// Create allocates an n-qubit register initialised to |0...0>.
	Create(numQubits int) (Register, error)
}

// Register is an opaque handle to an allocated qubit register. It is
// exclusively owned by one execution; Destroy must be invoked on every
// exit path.
type Register interface {
	// NumQubits returns the register size.
	NumQubits() int

	// Single-qubit unitaries.
	Hadamard(target int)
	PauliX(target int)
	PauliY(target int)
	PauliZ(target int)
	SGate(target int)
	TGate(target int)
	PhaseShift(target int, angle float64)
	RotateX(target int, angle float64)
	RotateY(target int, angle float64)
	RotateZ(target int, angle float64)

	// Two-qubit unitaries.
	ControlledNot(control, target int)
	ControlledPauliY(control, target int)
	ControlledRotateZ(control, target int, angle float64)
	ControlledPhaseShift(control, target int, angle float64)
	Swap(a, b int)
	SqrtSwap(a, b int)

	// MultiControlledNot applies NOT to every target qubit when all
	// control qubits are 1 (Toffoli is controls=2, targets=1).
	MultiControlledNot(controls, targets []int)

	// Measure performs a projective measurement of one qubit, collapsing
	// the register, and returns the observed 0/1 outcome.
	Measure(target int) int

	// ProbAmp returns the probability of observing the given
	// computational-basis state under the current register.
	ProbAmp(state uint64) float64

	// Destroy releases all resources held by the register.
	Destroy()
}

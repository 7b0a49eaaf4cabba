// Package vm drives decoded bytecode through a simulator kernel and turns
// the resulting probability distribution into sampled measurement shots.
package vm

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tliron/commonlog"

	"github.com/HarryLiGameTech/StateQ/bits"
	"github.com/HarryLiGameTech/StateQ/bytecode"
	"github.com/HarryLiGameTech/StateQ/kernel"
)

var log = commonlog.GetLogger("qivm.vm")

// AvailableQubits is the advisory upper bound on what the kernel can
// simulate on a typical host. It is a constant of the build.
const AvailableQubits uint32 = 24

// probEpsilon is the cutoff below which basis-state probabilities are not
// accumulated into the probability map.
const probEpsilon = 1e-10

// Execution error codes on the wire surface.
const (
	ErrCodeOK      uint8 = 0
	ErrCodeExecute uint8 = 1
	ErrCodeParse   uint8 = 2
	ErrCodeUnknown uint8 = 255
)

// IsGateAvailable reports membership in the full gate catalogue. This is
// the compiler handshake: it advertises gates the driver cannot execute
// yet, and the dispatcher rejects those at execution time.
func IsGateAvailable(name string) bool {
	return bytecode.IsAvailable(name)
}

// ---------------------------------------------------------------------------
// Driver
// ---------------------------------------------------------------------------

// Driver executes bytecode against a kernel. A Driver processes one
// request at a time; callers serialise concurrent requests.
type Driver struct {
	kern kernel.Kernel
	rng  *rand.Rand
}

// Option configures a Driver.
type Option func(*Driver)

// WithRand fixes the sampling random source. Without it, every ExecBytecode
// call seeds a fresh generator from the clock.
func WithRand(rng *rand.Rand) Option {
	return func(d *Driver) { d.rng = rng }
}

// New creates a Driver on top of kern.
func New(kern kernel.Kernel, opts ...Option) *Driver {
	d := &Driver{kern: kern}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ExecBytecode decodes and executes a raw bytecode slice, then samples the
// measurement distribution with the requested number of shots. It never
// returns a partial result: either a well-formed measurement or a non-zero
// error code.
func (d *Driver) ExecBytecode(data []byte, shots uint32) ExecuteResult {
	rng := d.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	log.Infof("executing bytecode of length %d with %d shots", len(data), shots)
	log.Debugf("bytecode:\n  %s", bytecode.HexString(data))

	instrs, err := bytecode.Decode(data)
	if err != nil {
		log.Errorf("bytecode parse error: %v", err)
		return ExecuteResult{Error: Classify(err)}
	}

	probs, err := d.ExecuteOnce(instrs)
	if err != nil {
		log.Errorf("%v", err)
		return ExecuteResult{Error: Classify(err)}
	}

	entries := sample(probs, shots, rng)
	m := &Measurement{Shots: uint64(shots), Entries: entries}
	log.Infof("measurements: %s", m)
	return ExecuteResult{Error: ErrCodeOK, Measurement: m}
}

// ---------------------------------------------------------------------------
// Instruction walk
// ---------------------------------------------------------------------------

// ExecuteOnce walks the instruction list in stream order and returns the
// probability map accumulated at Measure instructions, keyed by basis
// state masked to the measured qubits. The register is destroyed on every
// exit path.
func (d *Driver) ExecuteOnce(instrs []bytecode.Instruction) (probs map[uint64]float64, err error) {
	var reg kernel.Register
	defer func() {
		if reg != nil {
			reg.Destroy()
		}
		if r := recover(); r != nil {
			probs = nil
			err = fmt.Errorf("panic during execution: %v", r)
		}
	}()

	var measureMask uint64
	probs = make(map[uint64]float64)

	for _, in := range instrs {
		switch in.Kind {
		case bytecode.KindNop:
			// nothing

		case bytecode.KindPrimitive:
			reg, measureMask, err = d.execPrimitive(reg, measureMask, probs, in)
			if err != nil {
				return nil, err
			}

		case bytecode.KindStandardGate:
			if reg == nil {
				return nil, errNotInitialized()
			}
			if err := checkTargets(reg, in.Targets); err != nil {
				return nil, err
			}
			if err := dispatchGate(reg, in); err != nil {
				return nil, err
			}
			log.Debugf("executing instruction %s", in)
		}
	}

	return probs, nil
}

// execPrimitive handles Alloc, Reset and Measure. It returns the possibly
// replaced register and the widened measurement mask.
func (d *Driver) execPrimitive(
	reg kernel.Register, measureMask uint64, probs map[uint64]float64, in bytecode.Instruction,
) (kernel.Register, uint64, error) {
	switch in.Opcode {
	case bytecode.OpAlloc:
		if len(in.Params) != 1 {
			return reg, measureMask, &ProgramError{
				Message: fmt.Sprintf("Alloc expects exactly one parameter, got %d", len(in.Params)),
			}
		}
		// A second Alloc replaces the register; the old state is
		// destroyed first.
		if reg != nil {
			reg.Destroy()
		}
		numQubits := in.Params[0].Uint()
		newReg, err := d.kern.Create(int(numQubits))
		if err != nil {
			return nil, measureMask, &ProgramError{Message: err.Error()}
		}
		log.Infof("allocate %d qubits", numQubits)
		return newReg, measureMask, nil

	case bytecode.OpReset:
		if reg == nil {
			return reg, measureMask, errNotInitialized()
		}
		for _, p := range in.Params {
			qubit := p.Uint()
			if qubit >= uint64(reg.NumQubits()) {
				return reg, measureMask, qubitOutOfRange(qubit, reg.NumQubits())
			}
			if reg.Measure(int(qubit)) == 1 {
				reg.PauliX(int(qubit))
			}
			log.Debugf("reset qubit %d", qubit)
		}
		return reg, measureMask, nil

	case bytecode.OpMeasure:
		if reg == nil {
			return reg, measureMask, errNotInitialized()
		}
		for _, p := range in.Params {
			qubit := p.Uint()
			if qubit >= uint64(reg.NumQubits()) {
				return reg, measureMask, qubitOutOfRange(qubit, reg.NumQubits())
			}
			measureMask |= 1 << qubit
		}
		log.Debugf("measure qubits %v", bits.FromMask(measureMask).Indices())

		// Measure reads amplitudes without mutating the register.
		// Repeated Measure instructions accumulate into the same map
		// under the widened mask.
		numStates := uint64(1) << reg.NumQubits()
		for state := uint64(0); state < numStates; state++ {
			p := reg.ProbAmp(state)
			if p > probEpsilon {
				probs[state&measureMask] += p
			}
		}
		return reg, measureMask, nil
	}

	return reg, measureMask, &ProgramError{
		Message: fmt.Sprintf("Unknown primitive instruction %s", in.Opcode),
	}
}

func qubitOutOfRange(qubit uint64, size int) error {
	return &ProgramError{
		Message: fmt.Sprintf("Qubit address %d out of range for register of size %d", qubit, size),
	}
}

// checkTargets validates every referenced qubit address against the
// register size.
func checkTargets(reg kernel.Register, targets []uint32) error {
	for _, t := range targets {
		if t >= uint32(reg.NumQubits()) {
			return qubitOutOfRange(uint64(t), reg.NumQubits())
		}
	}
	return nil
}

// Package statevec is the default dense state-vector kernel. It holds one
// complex128 amplitude per computational-basis state and applies gates as
// in-place bit-pair updates.
package statevec

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"time"

	"github.com/HarryLiGameTech/StateQ/kernel"
)

// MaxQubits bounds register allocation: a dense vector beyond this size is
// not simulable on a typical host.
const MaxQubits = 30

// Kernel creates state-vector registers.
type Kernel struct {
	rng *rand.Rand
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithRand sets the random source used for projective measurement.
// Without it, the kernel seeds from the clock.
func WithRand(rng *rand.Rand) Option {
	return func(k *Kernel) { k.rng = rng }
}

// New creates a Kernel.
func New(opts ...Option) *Kernel {
	k := &Kernel{}
	for _, opt := range opts {
		opt(k)
	}
	if k.rng == nil {
		k.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return k
}

// Create allocates a register in |0...0>.
func (k *Kernel) Create(numQubits int) (kernel.Register, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("statevec: cannot allocate %d qubits (1..%d)", numQubits, MaxQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &Register{amps: amps, numQubits: numQubits, rng: k.rng}, nil
}

// Register is a dense state-vector register.
type Register struct {
	amps      []complex128
	numQubits int
	rng       *rand.Rand
}

// NumQubits returns the register size.
func (r *Register) NumQubits() int {
	return r.numQubits
}

// Destroy releases the amplitude vector.
func (r *Register) Destroy() {
	r.amps = nil
}

// ProbAmp returns |amplitude|^2 of the given basis state.
func (r *Register) ProbAmp(state uint64) float64 {
	if state >= uint64(len(r.amps)) {
		return 0
	}
	a := r.amps[state]
	return real(a)*real(a) + imag(a)*imag(a)
}

// ---------------------------------------------------------------------------
// Single-qubit unitaries
// ---------------------------------------------------------------------------

// apply1 applies the 2x2 matrix [[a b] [c d]] to the target qubit.
func (r *Register) apply1(target int, a, b, c, d complex128) {
	bit := 1 << target
	for i := range r.amps {
		if i&bit == 0 {
			j := i | bit
			ai, aj := r.amps[i], r.amps[j]
			r.amps[i] = a*ai + b*aj
			r.amps[j] = c*ai + d*aj
		}
	}
}

// phase1 multiplies every |1>-component of the target by factor.
func (r *Register) phase1(target int, factor complex128) {
	bit := 1 << target
	for i := range r.amps {
		if i&bit != 0 {
			r.amps[i] *= factor
		}
	}
}

// Hadamard applies H to the target.
func (r *Register) Hadamard(target int) {
	h := complex(1/math.Sqrt2, 0)
	r.apply1(target, h, h, h, -h)
}

// PauliX applies X to the target.
func (r *Register) PauliX(target int) {
	bit := 1 << target
	for i := range r.amps {
		if i&bit == 0 {
			j := i | bit
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// PauliY applies Y to the target.
func (r *Register) PauliY(target int) {
	r.apply1(target, 0, -1i, 1i, 0)
}

// PauliZ applies Z to the target.
func (r *Register) PauliZ(target int) {
	r.phase1(target, -1)
}

// SGate applies the pi/2 phase gate.
func (r *Register) SGate(target int) {
	r.phase1(target, 1i)
}

// TGate applies the pi/4 phase gate.
func (r *Register) TGate(target int) {
	r.phase1(target, cmplx.Exp(complex(0, math.Pi/4)))
}

// PhaseShift applies diag(1, e^{i*angle}) to the target.
func (r *Register) PhaseShift(target int, angle float64) {
	r.phase1(target, cmplx.Exp(complex(0, angle)))
}

// RotateX applies RX(angle) to the target.
func (r *Register) RotateX(target int, angle float64) {
	c := complex(math.Cos(angle/2), 0)
	js := complex(0, -math.Sin(angle/2))
	r.apply1(target, c, js, js, c)
}

// RotateY applies RY(angle) to the target.
func (r *Register) RotateY(target int, angle float64) {
	c := complex(math.Cos(angle/2), 0)
	s := complex(math.Sin(angle/2), 0)
	r.apply1(target, c, -s, s, c)
}

// RotateZ applies RZ(angle) to the target.
func (r *Register) RotateZ(target int, angle float64) {
	phase := cmplx.Exp(complex(0, angle/2))
	bit := 1 << target
	for i := range r.amps {
		if i&bit != 0 {
			r.amps[i] *= phase
		} else {
			r.amps[i] *= cmplx.Conj(phase)
		}
	}
}

// ---------------------------------------------------------------------------
// Two-qubit unitaries
// ---------------------------------------------------------------------------

// ControlledNot flips the target where the control is 1.
func (r *Register) ControlledNot(control, target int) {
	cBit, tBit := 1<<control, 1<<target
	for i := range r.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// ControlledPauliY applies Y to the target where the control is 1.
func (r *Register) ControlledPauliY(control, target int) {
	cBit, tBit := 1<<control, 1<<target
	for i := range r.amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			ai, aj := r.amps[i], r.amps[j]
			r.amps[i] = -1i * aj
			r.amps[j] = 1i * ai
		}
	}
}

// ControlledRotateZ applies RZ(angle) to the target where the control is 1.
func (r *Register) ControlledRotateZ(control, target int, angle float64) {
	phase := cmplx.Exp(complex(0, angle/2))
	cBit, tBit := 1<<control, 1<<target
	for i := range r.amps {
		if i&cBit == 0 {
			continue
		}
		if i&tBit != 0 {
			r.amps[i] *= phase
		} else {
			r.amps[i] *= cmplx.Conj(phase)
		}
	}
}

// ControlledPhaseShift multiplies by e^{i*angle} where both qubits are 1.
func (r *Register) ControlledPhaseShift(control, target int, angle float64) {
	factor := cmplx.Exp(complex(0, angle))
	cBit, tBit := 1<<control, 1<<target
	for i := range r.amps {
		if i&cBit != 0 && i&tBit != 0 {
			r.amps[i] *= factor
		}
	}
}

// Swap exchanges two qubits.
func (r *Register) Swap(a, b int) {
	aBit, bBit := 1<<a, 1<<b
	for i := range r.amps {
		if i&aBit != 0 && i&bBit == 0 {
			j := (i &^ aBit) | bBit
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// SqrtSwap applies the square root of SWAP.
func (r *Register) SqrtSwap(a, b int) {
	u := complex(0.5, 0.5)  // (1+i)/2
	v := complex(0.5, -0.5) // (1-i)/2
	aBit, bBit := 1<<a, 1<<b
	for i := range r.amps {
		if i&aBit != 0 && i&bBit == 0 {
			j := (i &^ aBit) | bBit
			ai, aj := r.amps[i], r.amps[j]
			r.amps[i] = u*ai + v*aj
			r.amps[j] = v*ai + u*aj
		}
	}
}

// MultiControlledNot flips every target qubit where all controls are 1.
func (r *Register) MultiControlledNot(controls, targets []int) {
	var ctrlMask, targetMask int
	for _, c := range controls {
		ctrlMask |= 1 << c
	}
	for _, t := range targets {
		targetMask |= 1 << t
	}
	for i := range r.amps {
		if i&ctrlMask != ctrlMask {
			continue
		}
		j := i ^ targetMask
		if i < j {
			r.amps[i], r.amps[j] = r.amps[j], r.amps[i]
		}
	}
}

// ---------------------------------------------------------------------------
// Measurement
// ---------------------------------------------------------------------------

// Measure projectively measures one qubit, collapses the register and
// renormalises.
func (r *Register) Measure(target int) int {
	bit := 1 << target

	prob1 := 0.0
	for i, a := range r.amps {
		if i&bit != 0 {
			prob1 += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	outcome := 0
	if r.rng.Float64() < prob1 {
		outcome = 1
	}

	keep := 0
	if outcome == 1 {
		keep = bit
	}
	surviving := prob1
	if outcome == 0 {
		surviving = 1 - prob1
	}
	norm := 1.0
	if surviving > 0 {
		norm = math.Sqrt(surviving)
	}
	for i := range r.amps {
		if i&bit == keep {
			r.amps[i] /= complex(norm, 0)
		} else {
			r.amps[i] = 0
		}
	}
	return outcome
}

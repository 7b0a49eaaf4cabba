package vm

import (
	"math"

	"github.com/HarryLiGameTech/StateQ/bytecode"
	"github.com/HarryLiGameTech/StateQ/kernel"
)

// dispatchGate validates an instruction's shape against the catalogue and
// applies it to the register. The execution subset is strictly smaller
// than the catalogue; everything else fails with UnsupportedGateError.
func dispatchGate(reg kernel.Register, in bytecode.Instruction) error {
	if !in.Gate.Known() {
		return &UnsupportedGateError{Gate: in.Gate.Info().Name}
	}

	info := in.Gate.Info()
	if len(in.Params) != info.NumParams {
		return &ArityError{Gate: info.Name, Expected: info.NumParams, Actual: len(in.Params)}
	}
	if len(in.Targets) != info.NumTargets {
		return &TargetSizeError{Gate: info.Name, Expected: info.NumTargets, Actual: len(in.Targets)}
	}

	t := func(i int) int { return int(in.Targets[i]) }

	switch in.Gate {
	case bytecode.GateI:
		// identity

	case bytecode.GateH:
		reg.Hadamard(t(0))
	case bytecode.GateX:
		reg.PauliX(t(0))
	case bytecode.GateY:
		reg.PauliY(t(0))
	case bytecode.GateZ:
		reg.PauliZ(t(0))
	case bytecode.GateS:
		reg.SGate(t(0))
	case bytecode.GateSD:
		// The reference backend realises S-dagger as RX(-pi/2), which is
		// not the adjoint of S. Kept for cross-implementation parity.
		reg.RotateX(t(0), -math.Pi/2)
	case bytecode.GateT:
		reg.TGate(t(0))
	case bytecode.GateTD:
		// Same as SD: RX(-pi/4) rather than the adjoint of T.
		reg.RotateX(t(0), -math.Pi/4)

	case bytecode.GateP:
		reg.PhaseShift(t(0), in.Params[0].Float())
	case bytecode.GateRX:
		reg.RotateX(t(0), in.Params[0].Float())
	case bytecode.GateRY:
		reg.RotateY(t(0), in.Params[0].Float())
	case bytecode.GateRZ:
		reg.RotateZ(t(0), in.Params[0].Float())

	case bytecode.GateCX:
		reg.ControlledNot(t(0), t(1))
	case bytecode.GateCY:
		reg.ControlledPauliY(t(0), t(1))
	case bytecode.GateCZ:
		// The reference backend applies controlled-RZ(0) here, i.e. the
		// identity. Kept for cross-implementation parity.
		reg.ControlledRotateZ(t(0), t(1), 0)
	case bytecode.GateCP:
		reg.ControlledPhaseShift(t(0), t(1), in.Params[0].Float())
	case bytecode.GateSWP:
		reg.Swap(t(0), t(1))
	case bytecode.GateSSWP:
		reg.SqrtSwap(t(0), t(1))

	case bytecode.GateCCX:
		reg.MultiControlledNot([]int{t(0), t(1)}, []int{t(2)})

	default:
		return &UnsupportedGateError{Gate: info.Name}
	}

	return nil
}

package vm

import (
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// ---------------------------------------------------------------------------
// Measurement results
// ---------------------------------------------------------------------------

// Entry is one row of a measurement report: a masked basis state and the
// number of shots that produced it.
type Entry struct {
	Value uint64 `cbor:"value" json:"value"`
	Count uint64 `cbor:"count" json:"count"`
}

// Measurement is a complete measurement report. Entry values are unique
// and their counts sum to Shots, except when the sampled distribution is
// empty: Entries is then empty while Shots still holds the requested count.
type Measurement struct {
	Shots   uint64  `cbor:"shots" json:"shots"`
	Entries []Entry `cbor:"measurements" json:"measurements"`
}

// String renders the report the way the execution log prints it: binary
// state against count.
func (m *Measurement) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, e := range m.Entries {
		sb.WriteString(fmt.Sprintf("    %016b : %d,\n", e.Value, e.Count))
	}
	sb.WriteString("}")
	return sb.String()
}

// ExecuteResult is the outcome of one ExecBytecode invocation: either a
// measurement (Error == 0) or a bare error code.
type ExecuteResult struct {
	Error       uint8        `cbor:"error" json:"error"`
	Measurement *Measurement `cbor:"measurement,omitempty" json:"measurement,omitempty"`
}

// ---------------------------------------------------------------------------
// CBOR export
// ---------------------------------------------------------------------------

// cborEncMode uses canonical options for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalMeasurement serializes a Measurement to canonical CBOR bytes.
func MarshalMeasurement(m *Measurement) ([]byte, error) {
	return cborEncMode.Marshal(m)
}

// UnmarshalMeasurement deserializes a Measurement from CBOR bytes.
func UnmarshalMeasurement(data []byte) (*Measurement, error) {
	var m Measurement
	if err := cbor.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("vm: unmarshal measurement: %w", err)
	}
	return &m, nil
}

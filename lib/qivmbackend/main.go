// Package main builds the C-linkage backend library
// (go build -buildmode=c-shared). The exported surface is wire-stable:
// exec_bytecode transfers ownership of the measurement block to the
// caller, which releases it with free().
package main

/*
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>

typedef struct MeasurementResultEntry
{
    uint64_t value;
    uint64_t count;
}
MeasurementResultEntry;

typedef struct MeasurementResult
{
    uint64_t shots;
    uint64_t result_size;
    struct MeasurementResultEntry *measurements;
}
MeasurementResult;

typedef struct ExecuteResult
{
    uint8_t error;
    struct MeasurementResult measurement;
}
ExecuteResult;
*/
import "C"

import (
	"unsafe"

	_ "github.com/tliron/commonlog/simple"

	"github.com/HarryLiGameTech/StateQ/kernel/statevec"
	"github.com/HarryLiGameTech/StateQ/vm"
)

//export qivm_available_qubits
func qivm_available_qubits() C.uint32_t {
	return C.uint32_t(vm.AvailableQubits)
}

//export qivm_is_gate_available
func qivm_is_gate_available(ident *C.char) C.bool {
	return C.bool(vm.IsGateAvailable(C.GoString(ident)))
}

//export qivm_exec_bytecode
func qivm_exec_bytecode(rawBytecode *C.uint8_t, bytecodeLength C.uint32_t, shots C.uint32_t) C.ExecuteResult {
	var data []byte
	if rawBytecode != nil && bytecodeLength > 0 {
		data = C.GoBytes(unsafe.Pointer(rawBytecode), C.int(bytecodeLength))
	}

	driver := vm.New(statevec.New())
	res := driver.ExecBytecode(data, uint32(shots))

	out := C.ExecuteResult{error: C.uint8_t(res.Error)}
	if res.Error != 0 || res.Measurement == nil {
		return out
	}

	entries := res.Measurement.Entries
	out.measurement.shots = C.uint64_t(res.Measurement.Shots)
	out.measurement.result_size = C.uint64_t(len(entries))
	if len(entries) == 0 {
		return out
	}

	// The entry block is C-allocated: ownership transfers to the caller.
	size := C.size_t(len(entries)) * C.size_t(unsafe.Sizeof(C.MeasurementResultEntry{}))
	block := (*C.MeasurementResultEntry)(C.malloc(size))
	slice := unsafe.Slice(block, len(entries))
	for i, e := range entries {
		slice[i].value = C.uint64_t(e.Value)
		slice[i].count = C.uint64_t(e.Count)
	}
	out.measurement.measurements = block
	return out
}

func main() {}

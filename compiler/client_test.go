package compiler

import (
	"testing"

	"github.com/jhump/protoreflect/dynamic"
)

func TestCompileMethodDescriptor(t *testing.T) {
	method, err := compileMethod()
	if err != nil {
		t.Fatalf("compileMethod error: %v", err)
	}
	if method.GetName() != "Compile" {
		t.Errorf("method = %q, want Compile", method.GetName())
	}
	if method.GetInputType().GetFullyQualifiedName() != "stateq.compiler.v1.CompileRequest" {
		t.Errorf("input = %q", method.GetInputType().GetFullyQualifiedName())
	}
	if method.IsClientStreaming() || method.IsServerStreaming() {
		t.Error("Compile must be unary")
	}
}

func TestRequestConstruction(t *testing.T) {
	method, err := compileMethod()
	if err != nil {
		t.Fatal(err)
	}

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("source_path", "/tmp/prog.sq")
	req.PutMapFieldByName("options", "opt-level", "2")

	if got := req.GetFieldByName("source_path").(string); got != "/tmp/prog.sq" {
		t.Errorf("source_path = %q", got)
	}
	val, err := req.TryGetMapFieldByName("options", "opt-level")
	if err != nil {
		t.Fatalf("TryGetMapFieldByName error: %v", err)
	}
	if val.(string) != "2" {
		t.Errorf("options[opt-level] = %v, want 2", val)
	}
}

func TestDecodeResponse(t *testing.T) {
	method, err := compileMethod()
	if err != nil {
		t.Fatal(err)
	}

	diagType := method.GetOutputType().FindFieldByName("diagnostics").GetMessageType()
	diag := dynamic.NewMessage(diagType)
	diag.SetFieldByName("severity", int32(SeverityWarning))
	diag.SetFieldByName("source", "prog.sq")
	diag.SetFieldByName("line", int32(12))
	diag.SetFieldByName("column", int32(3))
	diag.SetFieldByName("message", "unused qubit")

	resp := dynamic.NewMessage(method.GetOutputType())
	resp.AddRepeatedFieldByName("targets", "prog.qbc")
	resp.AddRepeatedFieldByName("diagnostics", diag)

	result, err := decodeResponse(resp)
	if err != nil {
		t.Fatalf("decodeResponse error: %v", err)
	}
	if len(result.Targets) != 1 || result.Targets[0] != "prog.qbc" {
		t.Errorf("Targets = %v", result.Targets)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v", result.Diagnostics)
	}
	d := result.Diagnostics[0]
	if d.Severity != SeverityWarning || d.Source != "prog.sq" || d.Line != 12 || d.Column != 3 {
		t.Errorf("diagnostic = %+v", d)
	}
	if result.HasErrors() {
		t.Error("warning-only result must not report errors")
	}

	diag.SetFieldByName("severity", int32(SeverityError))
	result, err = decodeResponse(resp)
	if err != nil {
		t.Fatal(err)
	}
	if !result.HasErrors() {
		t.Error("error diagnostic must be reported by HasErrors")
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityError, "Error"},
		{SeverityWarning, "Warning"},
		{SeverityNote, "Note"},
		{SeverityHelp, "Help"},
	}
	for _, tt := range tests {
		if got := tt.sev.String(); got != tt.want {
			t.Errorf("%d: String() = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

// Package compiler invokes the upstream StateQ compiler over gRPC. The
// messages are built dynamically from an embedded proto definition, so no
// generated stubs are committed; the compiler process itself is an
// external collaborator.
package compiler

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// compilerProto is the wire contract of the compiler front-end. Severity
// values match the foreign enum: 0 error, 1 warning, 2 note, 3 help.
const compilerProto = `syntax = "proto3";

package stateq.compiler.v1;

service Compiler {
  rpc Compile(CompileRequest) returns (CompileResponse);
}

message CompileRequest {
  string source_path = 1;
  map<string, string> options = 2;
}

message Diagnostic {
  int32 severity = 1;
  string source = 2;
  int32 line = 3;
  int32 column = 4;
  string message = 5;
}

message CompileResponse {
  repeated string targets = 1;
  repeated Diagnostic diagnostics = 2;
}
`

const protoFileName = "stateq/compiler/v1/compiler.proto"

// Severity classifies a compiler diagnostic.
type Severity int32

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
	SeverityHelp
)

// String returns the diagnostic label the CLI prints.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Error"
	case SeverityWarning:
		return "Warning"
	case SeverityNote:
		return "Note"
	case SeverityHelp:
		return "Help"
	}
	return fmt.Sprintf("Severity(%d)", int32(s))
}

// Diagnostic is one compiler message tied to a source location.
type Diagnostic struct {
	Severity Severity
	Source   string
	Line     int32
	Column   int32
	Message  string
}

// Result is the outcome of one compiler invocation: the produced target
// files and any diagnostics.
type Result struct {
	Targets     []string
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Descriptor resolution
// ---------------------------------------------------------------------------

var (
	descOnce   sync.Once
	descErr    error
	methodDesc *desc.MethodDescriptor
)

// compileMethod parses the embedded proto once and returns the Compile
// method descriptor.
func compileMethod() (*desc.MethodDescriptor, error) {
	descOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{
				protoFileName: compilerProto,
			}),
		}
		fds, err := parser.ParseFiles(protoFileName)
		if err != nil {
			descErr = fmt.Errorf("parsing compiler proto: %w", err)
			return
		}
		svc := fds[0].FindService("stateq.compiler.v1.Compiler")
		if svc == nil {
			descErr = fmt.Errorf("compiler proto: service not found")
			return
		}
		methodDesc = svc.FindMethodByName("Compile")
		if methodDesc == nil {
			descErr = fmt.Errorf("compiler proto: Compile method not found")
		}
	})
	return methodDesc, descErr
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client talks to one compiler endpoint.
type Client struct {
	conn *grpc.ClientConn
	stub grpcdynamic.Stub
}

// Dial connects to the compiler front-end at addr.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connecting to compiler at %s: %w", addr, err)
	}
	return &Client{conn: conn, stub: grpcdynamic.NewStub(conn)}, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Compile submits a source file plus a flat key/value option list and
// returns the produced targets and diagnostics.
func (c *Client) Compile(ctx context.Context, sourcePath string, options map[string]string) (*Result, error) {
	method, err := compileMethod()
	if err != nil {
		return nil, err
	}

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("source_path", sourcePath)
	for k, v := range options {
		req.PutMapFieldByName("options", k, v)
	}

	resp, err := c.stub.InvokeRpc(ctx, method, req)
	if err != nil {
		return nil, fmt.Errorf("compile rpc: %w", err)
	}

	respMsg, ok := resp.(*dynamic.Message)
	if !ok {
		return nil, fmt.Errorf("compile rpc: unexpected response type %T", resp)
	}
	return decodeResponse(respMsg)
}

// decodeResponse maps a CompileResponse message onto the Result type.
func decodeResponse(msg *dynamic.Message) (*Result, error) {
	result := &Result{}

	targets, err := msg.TryGetFieldByName("targets")
	if err != nil {
		return nil, fmt.Errorf("decoding targets: %w", err)
	}
	for _, t := range targets.([]interface{}) {
		result.Targets = append(result.Targets, t.(string))
	}

	diags, err := msg.TryGetFieldByName("diagnostics")
	if err != nil {
		return nil, fmt.Errorf("decoding diagnostics: %w", err)
	}
	for _, raw := range diags.([]interface{}) {
		d, err := decodeDiagnostic(raw)
		if err != nil {
			return nil, err
		}
		result.Diagnostics = append(result.Diagnostics, d)
	}
	return result, nil
}

func decodeDiagnostic(raw interface{}) (Diagnostic, error) {
	msg, ok := raw.(*dynamic.Message)
	if !ok {
		return Diagnostic{}, fmt.Errorf("diagnostic has unexpected type %T", raw)
	}
	return Diagnostic{
		Severity: Severity(msg.GetFieldByName("severity").(int32)),
		Source:   msg.GetFieldByName("source").(string),
		Line:     msg.GetFieldByName("line").(int32),
		Column:   msg.GetFieldByName("column").(int32),
		Message:  msg.GetFieldByName("message").(string),
	}, nil
}

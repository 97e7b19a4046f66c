// Package bench serves benchmark generation and feature computation over
// gRPC. Messages are google.protobuf.Struct values, so the service needs no
// generated code; the typed request and response structs below describe the
// fields each method reads and writes.
package bench

import (
	"context"
	"encoding/json"

	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "qbench.v1.BenchService"

// ------------------------------------------------------------------
// Messages
// ------------------------------------------------------------------

type GenerateRequest struct {
	Benchmark string `json:"benchmark"`
	NumQubits int    `json:"num_qubits"`
	Level     string `json:"level,omitempty"`    // alg or indep, alg when empty
	Compiler  string `json:"compiler,omitempty"` // indep only
	Save      bool   `json:"save,omitempty"`     // store the result in the registry
}

type GenerateResponse struct {
	ID        string             `json:"id,omitempty"`
	Filename  string             `json:"filename"`
	Content   string             `json:"content"`
	NumQubits int                `json:"num_qubits"`
	Features  supermarq.Features `json:"features"`
	Cached    bool               `json:"cached"`
}

type FeaturesRequest struct {
	QASM string `json:"qasm"`
}

type FeaturesResponse struct {
	Key       string             `json:"key"`
	NumQubits int                `json:"num_qubits"`
	Features  supermarq.Features `json:"features"`
	Cached    bool               `json:"cached"`
}

type BenchmarkInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	MinQubits int    `json:"min_qubits"`
	MaxQubits int    `json:"max_qubits"`
}

type Catalog struct {
	Benchmarks []BenchmarkInfo `json:"benchmarks"`
	Levels     []string        `json:"levels"`
	Compilers  []string        `json:"compilers"`
	Devices    []string        `json:"devices"`
}

// ToStruct converts a message to its wire form.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding message")
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "encoding message")
	}
	return structpb.NewStruct(m)
}

// FromStruct fills v from a wire message.
func FromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return errors.Wrap(err, "decoding message")
	}
	return errors.Wrap(json.Unmarshal(data, v), "decoding message")
}

// ------------------------------------------------------------------
// Service descriptor
// ------------------------------------------------------------------

type BenchServiceServer interface {
	Generate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Features(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListBenchmarks(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(BenchServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BenchServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BenchServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BenchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("Generate", BenchServiceServer.Generate),
		unaryHandler("Features", BenchServiceServer.Features),
		unaryHandler("ListBenchmarks", BenchServiceServer.ListBenchmarks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "qbench/v1/bench.proto",
}

func RegisterBenchServiceServer(s grpc.ServiceRegistrar, srv BenchServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ------------------------------------------------------------------
// Client
// ------------------------------------------------------------------

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return err
	}
	return FromStruct(out, resp)
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	var resp GenerateResponse
	err := c.invoke(ctx, "Generate", req, &resp)
	return resp, err
}

func (c *Client) Features(ctx context.Context, qasm string) (FeaturesResponse, error) {
	var resp FeaturesResponse
	err := c.invoke(ctx, "Features", FeaturesRequest{QASM: qasm}, &resp)
	return resp, err
}

func (c *Client) ListBenchmarks(ctx context.Context) (Catalog, error) {
	var resp Catalog
	err := c.invoke(ctx, "ListBenchmarks", struct{}{}, &resp)
	return resp, err
}

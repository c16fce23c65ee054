// Package rpcserver exposes the desugaring pass as a unary gRPC RPC for
// out-of-process callers (an IDE plugin, a remote build step) that would
// rather keep one warm process around than pay a fresh CLI invocation's
// startup cost per module.
//
// It is grounded on the teacher's internal/evaluator/builtins_grpc.go:
// the same protoparse-at-startup, dynamic.Message, hand-built
// grpc.ServiceDesc dance, with no generated .pb.go anywhere. Where the
// teacher dispatches a dynamic RPC into a user-supplied script function,
// this package dispatches it straight into internal/desugar.Module.
package rpcserver

import (
	"context"
	_ "embed"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/classlang/tcdesugar/internal/ast"
	"github.com/classlang/tcdesugar/internal/desugar"
	"github.com/classlang/tcdesugar/internal/externs"
	"github.com/classlang/tcdesugar/internal/jsonmodule"
)

//go:embed desugar.proto
var protoSource string

const (
	serviceName     = "tcdesugar.TypeClassDesugarer"
	methodName      = "Desugar"
	requestTypeName = "tcdesugar.DesugarRequest"
	replyTypeName   = "tcdesugar.DesugarResponse"
)

// Server wraps a grpc.Server registered with the single Desugar method,
// resolved against the embedded proto schema via protoparse/dynamic the
// same way the teacher's builtinGrpcRegister resolves a loaded .proto's
// service descriptor at runtime.
type Server struct {
	grpcServer *grpc.Server
	reqType    *desc.MessageDescriptor
	respType   *desc.MessageDescriptor
}

// New parses the embedded schema and builds a Server ready to Serve.
func New() (*Server, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"desugar.proto": protoSource,
		}),
	}
	fds, err := parser.ParseFiles("desugar.proto")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded proto schema: %w", err)
	}
	if len(fds) != 1 {
		return nil, fmt.Errorf("expected exactly one parsed file, got %d", len(fds))
	}

	sd := fds[0].FindService(serviceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in embedded schema", serviceName)
	}
	md := sd.FindMethodByName(methodName)
	if md == nil {
		return nil, fmt.Errorf("method %s not found on service %s", methodName, serviceName)
	}

	srv := &Server{reqType: md.GetInputType(), respType: md.GetOutputType()}

	svcDesc := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: methodName,
			Handler: func(_ interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
				return srv.handle(ctx, dec)
			},
		}},
	}

	srv.grpcServer = grpc.NewServer()
	srv.grpcServer.RegisterService(svcDesc, srv)
	return srv, nil
}

// Serve blocks accepting connections on addr.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops the underlying grpc.Server.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

func (s *Server) handle(_ context.Context, dec func(interface{}) error) (interface{}, error) {
	reqMsg := dynamic.NewMessage(s.reqType)
	if err := dec(reqMsg); err != nil {
		return nil, err
	}

	moduleJSON, err := reqMsg.TryGetFieldByName("module_json")
	if err != nil {
		return nil, fmt.Errorf("reading module_json field: %w", err)
	}
	externsJSONVals, err := reqMsg.TryGetFieldByName("externs_json")
	if err != nil {
		return nil, fmt.Errorf("reading externs_json field: %w", err)
	}

	resp := dynamic.NewMessage(s.respType)

	mod, err := jsonmodule.DecodeModule([]byte(moduleJSON.(string)))
	if err != nil {
		return s.fail(resp, err)
	}

	var externsFiles []*ast.ExternsFile
	for _, raw := range externsJSONVals.([]interface{}) {
		ef, err := jsonmodule.DecodeExterns([]byte(raw.(string)))
		if err != nil {
			return s.fail(resp, err)
		}
		externsFiles = append(externsFiles, ef)
	}

	table := externs.Ingest(externs.Primitives(), externsFiles)
	out, err := desugar.Module(mod, table, desugar.IdentityCaseDesugarer)
	if err != nil {
		return s.fail(resp, err)
	}

	outJSON, err := jsonmodule.EncodeModule(out)
	if err != nil {
		return s.fail(resp, err)
	}

	resp.SetFieldByName("ok", true)
	resp.SetFieldByName("module_json", string(outJSON))
	return resp, nil
}

func (s *Server) fail(resp *dynamic.Message, err error) (interface{}, error) {
	resp.SetFieldByName("ok", false)
	resp.SetFieldByName("errors", []interface{}{err.Error()})
	return resp, nil
}

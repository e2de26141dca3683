// Package noteapi describes the NotesPal gRPC service shared by the server
// and the client. Messages are protobuf well-known types: request and
// response bodies travel as google.protobuf.Struct, bodiless calls use
// google.protobuf.Empty.
package noteapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "notespal.NoteService"

const (
	MethodRegisterUser = "RegisterUser"
	MethodCreateNote   = "CreateNote"
	MethodGetNote      = "GetNote"
	MethodListNotes    = "ListNotes"
	MethodUpdateNote   = "UpdateNote"
	MethodDeleteNote   = "DeleteNote"
	MethodRotateKey    = "RotateKey"
	MethodExportNotes  = "ExportNotes"
	MethodPing         = "Ping"
)

// FullMethod returns the "/service/method" path gRPC uses on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// NoteServiceServer is the server API for the note service.
type NoteServiceServer interface {
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateNote(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetNote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListNotes(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateNote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteNote(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	RotateKey(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ExportNotes(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }
func newEmpty() *emptypb.Empty    { return new(emptypb.Empty) }

func unary[Req, Resp proto.Message](method string, newReq func() Req,
	call func(NoteServiceServer, context.Context, Req) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NoteServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NoteServiceServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for the note service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NoteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodRegisterUser, Handler: unary(MethodRegisterUser, newStruct, NoteServiceServer.RegisterUser)},
		{MethodName: MethodCreateNote, Handler: unary(MethodCreateNote, newEmpty, NoteServiceServer.CreateNote)},
		{MethodName: MethodGetNote, Handler: unary(MethodGetNote, newStruct, NoteServiceServer.GetNote)},
		{MethodName: MethodListNotes, Handler: unary(MethodListNotes, newEmpty, NoteServiceServer.ListNotes)},
		{MethodName: MethodUpdateNote, Handler: unary(MethodUpdateNote, newStruct, NoteServiceServer.UpdateNote)},
		{MethodName: MethodDeleteNote, Handler: unary(MethodDeleteNote, newStruct, NoteServiceServer.DeleteNote)},
		{MethodName: MethodRotateKey, Handler: unary(MethodRotateKey, newEmpty, NoteServiceServer.RotateKey)},
		{MethodName: MethodExportNotes, Handler: unary(MethodExportNotes, newEmpty, NoteServiceServer.ExportNotes)},
		{MethodName: MethodPing, Handler: unary(MethodPing, newEmpty, NoteServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notespal/note_service",
}

// RegisterNoteServiceServer registers srv on s.
func RegisterNoteServiceServer(s grpc.ServiceRegistrar, srv NoteServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// NoteServiceClient is the client API for the note service.
type NoteServiceClient interface {
	RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateNote(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListNotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	RotateKey(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ExportNotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type noteServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNoteServiceClient(cc grpc.ClientConnInterface) NoteServiceClient {
	return &noteServiceClient{cc: cc}
}

func invoke[Resp proto.Message](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, out Resp, opts []grpc.CallOption) (Resp, error) {
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		var zero Resp
		return zero, err
	}
	return out, nil
}

func (c *noteServiceClient) RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodRegisterUser, in, newStruct(), opts)
}

func (c *noteServiceClient) CreateNote(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodCreateNote, in, newStruct(), opts)
}

func (c *noteServiceClient) GetNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodGetNote, in, newStruct(), opts)
}

func (c *noteServiceClient) ListNotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodListNotes, in, newStruct(), opts)
}

func (c *noteServiceClient) UpdateNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodUpdateNote, in, newStruct(), opts)
}

func (c *noteServiceClient) DeleteNote(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke(ctx, c.cc, MethodDeleteNote, in, newEmpty(), opts)
}

func (c *noteServiceClient) RotateKey(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodRotateKey, in, newStruct(), opts)
}

func (c *noteServiceClient) ExportNotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodExportNotes, in, newStruct(), opts)
}

func (c *noteServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke(ctx, c.cc, MethodPing, in, newStruct(), opts)
}

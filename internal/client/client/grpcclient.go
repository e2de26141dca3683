package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/noteapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      noteapi.NoteServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewNotesClient dials endpointURL lazily; the first call connects.
func NewNotesClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = noteapi.NewNoteServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.client.Ping(ctx, &emptypb.Empty{})
	return s.mapError(err)
}

func (s *GRPCClient) Register(ctx context.Context, p noteapi.Profile) (*noteapi.Registered, error) {
	req, err := noteapi.Encode(p)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.RegisterUser(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	out := &noteapi.Registered{}
	return out, noteapi.Decode(resp, out)
}

func (s *GRPCClient) CreateNote(ctx context.Context) (*noteapi.Note, error) {
	resp, err := s.client.CreateNote(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return decodeNote(resp)
}

func (s *GRPCClient) GetNote(ctx context.Context, id string) (*noteapi.Note, error) {
	req, err := noteapi.Encode(noteapi.NoteRef{ID: id})
	if err != nil {
		return nil, err
	}
	resp, err := s.client.GetNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return decodeNote(resp)
}

func (s *GRPCClient) ListNotes(ctx context.Context) ([]noteapi.Note, error) {
	resp, err := s.client.ListNotes(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	var list noteapi.NoteList
	if err := noteapi.Decode(resp, &list); err != nil {
		return nil, err
	}
	return list.Notes, nil
}

func (s *GRPCClient) UpdateNote(ctx context.Context, id, content, tapeColor string) (*noteapi.Note, error) {
	req, err := noteapi.Encode(noteapi.NoteUpdate{ID: id, Content: content, TapeColor: tapeColor})
	if err != nil {
		return nil, err
	}
	resp, err := s.client.UpdateNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return decodeNote(resp)
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	req, err := noteapi.Encode(noteapi.NoteRef{ID: id})
	if err != nil {
		return err
	}
	_, err = s.client.DeleteNote(ctx, req)
	return s.mapError(err)
}

func (s *GRPCClient) RotateKey(ctx context.Context) (int, error) {
	resp, err := s.client.RotateKey(ctx, &emptypb.Empty{})
	if err != nil {
		return 0, s.mapError(err)
	}
	var r noteapi.Rotated
	if err := noteapi.Decode(resp, &r); err != nil {
		return 0, err
	}
	return r.Rewrapped, nil
}

func (s *GRPCClient) Export(ctx context.Context) (*noteapi.Backup, error) {
	resp, err := s.client.ExportNotes(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	out := &noteapi.Backup{}
	return out, noteapi.Decode(resp, out)
}

func decodeNote(s *structpb.Struct) (*noteapi.Note, error) {
	n := &noteapi.Note{}
	if err := noteapi.Decode(s, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

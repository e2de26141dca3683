package grpc

import (
	"context"

	"github.com/dmitrijs2005/notespal/internal/noteapi"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) RegisterUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var p noteapi.Profile
	if err := noteapi.Decode(req, &p); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	u, err := s.users.Register(ctx, services.RegisterInput{
		ID:             userID,
		CustomerID:     p.CustomerID,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		SubscribedTill: p.SubscribedTill,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.encode(ctx, noteapi.Registered{ID: u.ID, CreatedAt: u.CreatedAt})
}

func (s *GRPCServer) CreateNote(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.notes.Create(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toNote(n))
}

func (s *GRPCServer) GetNote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := decodeRef(req)
	if err != nil {
		return nil, err
	}

	n, err := s.notes.Get(ctx, userID, ref.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toNote(n))
}

func (s *GRPCServer) ListNotes(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.notes.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := noteapi.NoteList{Notes: make([]noteapi.Note, 0, len(list))}
	for _, n := range list {
		out.Notes = append(out.Notes, toNote(n))
	}
	return s.encode(ctx, out)
}

func (s *GRPCServer) UpdateNote(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var upd noteapi.NoteUpdate
	if err := noteapi.Decode(req, &upd); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if upd.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "note id is required")
	}

	n, err := s.notes.Update(ctx, userID, upd.ID, upd.Content, upd.TapeColor)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, toNote(n))
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	ref, err := decodeRef(req)
	if err != nil {
		return nil, err
	}

	if err := s.notes.Delete(ctx, userID, ref.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) RotateKey(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.users.RotateSalt(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, noteapi.Rotated{Rewrapped: n})
}

func (s *GRPCServer) ExportNotes(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	b, err := s.backups.Export(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.encode(ctx, noteapi.Backup{StorageKey: b.StorageKey, URL: b.URL, Notes: b.Notes})
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.encode(ctx, noteapi.Pong{Status: "OK"})
}

func (s *GRPCServer) encode(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := noteapi.Encode(v)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return out, nil
}

func decodeRef(req *structpb.Struct) (noteapi.NoteRef, error) {
	var ref noteapi.NoteRef
	if err := noteapi.Decode(req, &ref); err != nil {
		return ref, status.Error(codes.InvalidArgument, err.Error())
	}
	if ref.ID == "" {
		return ref, status.Error(codes.InvalidArgument, "note id is required")
	}
	return ref, nil
}

func toNote(n *models.NoteView) noteapi.Note {
	return noteapi.Note{
		ID:        n.ID,
		Content:   n.Content,
		TapeColor: n.TapeColor,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

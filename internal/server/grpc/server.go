// Package grpc exposes the note services over gRPC using the descriptor in
// internal/noteapi.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/notespal/internal/logging"
	"github.com/dmitrijs2005/notespal/internal/noteapi"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	RotateSalt(ctx context.Context, id string) (int, error)
}

type noteSvc interface {
	Create(ctx context.Context, userID string) (*models.NoteView, error)
	Get(ctx context.Context, userID, noteID string) (*models.NoteView, error)
	List(ctx context.Context, userID string) ([]*models.NoteView, error)
	Update(ctx context.Context, userID, noteID, content, tapeColor string) (*models.NoteView, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type backupSvc interface {
	Export(ctx context.Context, userID string) (*models.Backup, error)
}

type GRPCServer struct {
	address   string
	users     userSvc
	notes     noteSvc
	backups   backupSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ns noteSvc, bs backupSvc, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		notes:     ns,
		backups:   bs,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	noteapi.RegisterNoteServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis and stops gracefully when ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}

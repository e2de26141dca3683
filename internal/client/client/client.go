// Package client is the notectl side of the note service: a typed wrapper
// over the gRPC stub that attaches the access token to every call.
package client

import (
	"context"

	"github.com/dmitrijs2005/notespal/internal/noteapi"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, p noteapi.Profile) (*noteapi.Registered, error)
	CreateNote(ctx context.Context) (*noteapi.Note, error)
	GetNote(ctx context.Context, id string) (*noteapi.Note, error)
	ListNotes(ctx context.Context) ([]noteapi.Note, error)
	UpdateNote(ctx context.Context, id, content, tapeColor string) (*noteapi.Note, error)
	DeleteNote(ctx context.Context, id string) error
	RotateKey(ctx context.Context) (int, error)
	Export(ctx context.Context) (*noteapi.Backup, error)
}

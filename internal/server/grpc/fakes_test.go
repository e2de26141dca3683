package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notespal/internal/logging"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

var ts = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeUsers struct {
	gotRegister services.RegisterInput
	regErr      error

	rotated   int
	rotateErr error
	rotateFor string
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	f.gotRegister = in
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.User{ID: in.ID, CreatedAt: ts}, nil
}

func (f *fakeUsers) RotateSalt(_ context.Context, id string) (int, error) {
	f.rotateFor = id
	return f.rotated, f.rotateErr
}

type fakeNotes struct {
	note *models.NoteView
	list []*models.NoteView
	err  error

	gotUser, gotNote, gotContent, gotColor string
	deleted                                bool
}

func (f *fakeNotes) Create(_ context.Context, userID string) (*models.NoteView, error) {
	f.gotUser = userID
	return f.note, f.err
}

func (f *fakeNotes) Get(_ context.Context, userID, noteID string) (*models.NoteView, error) {
	f.gotUser, f.gotNote = userID, noteID
	return f.note, f.err
}

func (f *fakeNotes) List(_ context.Context, userID string) ([]*models.NoteView, error) {
	f.gotUser = userID
	return f.list, f.err
}

func (f *fakeNotes) Update(_ context.Context, userID, noteID, content, tapeColor string) (*models.NoteView, error) {
	f.gotUser, f.gotNote, f.gotContent, f.gotColor = userID, noteID, content, tapeColor
	return f.note, f.err
}

func (f *fakeNotes) Delete(_ context.Context, userID, noteID string) error {
	f.gotUser, f.gotNote = userID, noteID
	if f.err == nil {
		f.deleted = true
	}
	return f.err
}

type fakeBackups struct {
	out *models.Backup
	err error
}

func (f *fakeBackups) Export(context.Context, string) (*models.Backup, error) {
	return f.out, f.err
}

package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/logging"
	"github.com/dmitrijs2005/notespal/internal/server/config"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// -------- in-memory repositories --------

type memUsers struct {
	mu         sync.Mutex
	users      map[string]*models.User
	err        error
	shareLocks int
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return m.GetByID(ctx, id)
}

func (m *memUsers) GetForShare(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	m.shareLocks++
	m.mu.Unlock()
	return m.GetByID(ctx, id)
}

func (m *memUsers) UpdateSalt(_ context.Context, id string, salt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Salt = salt
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.users, id)
	return nil
}

type memNotes struct {
	mu        sync.Mutex
	notes     map[string]*models.Note
	seq       int
	createErr error
	listErr   error
}

func (m *memNotes) Create(_ context.Context, n *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	n.CreatedAt = time.Date(2025, 1, 1, 0, 0, m.seq, 0, time.UTC)
	n.UpdatedAt = n.CreatedAt
	cp := *n
	m.notes[n.ID] = &cp
	return n, nil
}

func (m *memNotes) GetByUser(_ context.Context, userID, noteID string) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *memNotes) ListByUser(_ context.Context, userID string) ([]*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*models.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotes) UpdateContent(_ context.Context, n *models.Note) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[n.ID]
	if !ok || cur.UserID != n.UserID {
		return nil, common.ErrorNotFound
	}
	cur.EncryptedContent = n.EncryptedContent
	cur.IV = n.IV
	cur.TapeColor = n.TapeColor
	cur.UpdatedAt = cur.UpdatedAt.Add(time.Minute)
	cp := *cur
	return &cp, nil
}

func (m *memNotes) UpdateKey(_ context.Context, userID, noteID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[noteID]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	cur.EncryptionKey = key
	return nil
}

func (m *memNotes) Delete(_ context.Context, userID, noteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.notes[noteID]
	if !ok || cur.UserID != userID {
		return common.ErrorNotFound
	}
	delete(m.notes, noteID)
	return nil
}

// stored returns a copy of the raw row for assertions and tampering.
func (m *memNotes) stored(id string) models.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.notes[id]
}

func (m *memNotes) set(n models.Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes[n.ID] = &n
}

type fakeRepoManager struct {
	u *memUsers
	n *memNotes
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (f *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return f.u }
func (f *fakeRepoManager) Notes(dbx.DBTX) notes.Repository            { return f.n }

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &memUsers{users: map[string]*models.User{}},
		n: &memNotes{notes: map[string]*models.Note{}},
	}
}

// recLogger keeps error-level messages.
type recLogger struct {
	logging.Nop
	mu     sync.Mutex
	errors []string
}

func (r *recLogger) Error(_ context.Context, msg string, _ ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recLogger) With(...any) logging.Logger { return r }

// -------- fixture --------

type fixture struct {
	db     *sql.DB
	mock   sqlmock.Sqlmock
	rm     *fakeRepoManager
	cfg    *config.Config
	users  *UserService
	notes  *NoteService
	backup *BackupService
}

func newFixture(t *testing.T, bindNoteID bool) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		BindNoteID:     bindNoteID,
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "notes-backup",
		PresignExpiry:  15 * time.Minute,
	}
	rm := newFakeRepoManager()
	log := logging.Nop{}

	return &fixture{
		db:     db,
		mock:   mock,
		rm:     rm,
		cfg:    cfg,
		users:  NewUserService(db, rm, cfg, log),
		notes:  NewNoteService(db, rm, cfg, log),
		backup: NewBackupService(db, rm, cfg, log),
	}
}

// register adds a user directly with the given hex salt.
func (f *fixture) register(t *testing.T, id, salt string) {
	t.Helper()
	_, err := f.rm.u.Create(context.Background(), &models.User{ID: id, Salt: salt})
	require.NoError(t, err)
}

// expectTx queues one transaction that ends in a commit or a rollback.
func (f *fixture) expectTx(commit bool) {
	f.mock.ExpectBegin()
	if commit {
		f.mock.ExpectCommit()
	} else {
		f.mock.ExpectRollback()
	}
}

// createNote runs NoteService.Create expecting a committed transaction.
func (f *fixture) createNote(t *testing.T, userID string) *models.NoteView {
	t.Helper()
	f.expectTx(true)
	v, err := f.notes.Create(context.Background(), userID)
	require.NoError(t, err)
	return v
}

const zeroSalt = "00000000000000000000000000000000"

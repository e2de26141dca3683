package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/cryptox"
	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/logging"
	"github.com/dmitrijs2005/notespal/internal/server/config"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var tapeColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

var randomTapeColor = func() string {
	return common.TapeColors[rand.Intn(len(common.TapeColors))]
}

// NoteService creates, reads, updates and deletes notes on behalf of an
// authenticated user. Plaintext exists only inside a single call.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	envelope    *cryptox.Envelope
	log         logging.Logger
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		envelope:    cryptox.NewEnvelope(cfg.BindNoteID),
		log:         log,
	}
}

// Create stores a new, empty note with a fresh note key and a random tape
// color. The user row is share-locked so a concurrent salt rotation cannot
// commit between sealing and inserting.
func (s *NoteService) Create(ctx context.Context, userID string) (*models.NoteView, error) {
	noteID := uuid.NewString()

	var stored *models.Note
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).GetForShare(ctx, userID)
		if err != nil {
			return userError(err)
		}
		salt, err := cryptox.DecodeSalt(user.Salt)
		if err != nil {
			return fmt.Errorf("stored salt: %w", err)
		}

		sealed, err := s.envelope.Create(userID, salt, noteID)
		if err != nil {
			return err
		}

		stored, err = s.repomanager.Notes(tx).Create(ctx, &models.Note{
			ID:               noteID,
			UserID:           userID,
			EncryptedContent: sealed.EncryptedContent,
			EncryptionKey:    sealed.EncryptedKey,
			IV:               sealed.IV,
			TapeColor:        randomTapeColor(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "note created", "user_id", userID, "note_id", noteID)
	return view(stored, ""), nil
}

// Get returns the decrypted note. Missing, foreign, malformed and tampered
// notes are all reported as common.ErrorNoteUnavailable.
func (s *NoteService) Get(ctx context.Context, userID, noteID string) (*models.NoteView, error) {
	if err := checkNoteID(noteID); err != nil {
		return nil, err
	}

	var result *models.NoteView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		salt, err := s.userSalt(ctx, tx, userID)
		if err != nil {
			return err
		}

		n, err := s.repomanager.Notes(tx).GetByUser(ctx, userID, noteID)
		if err != nil {
			return noteError(err)
		}

		content, err := s.envelope.Read(sealedOf(n), userID, salt, n.ID)
		if err != nil {
			s.logDecryptFailure(ctx, err, n)
			return noteError(err)
		}
		result = view(n, content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List returns every note of the user, decrypted, newest first. The master
// key is derived once per call. Notes that fail authentication are left
// out and logged; if none of them authenticates the failure is logged as
// an error, since that usually means the key binding setting changed.
func (s *NoteService) List(ctx context.Context, userID string) ([]*models.NoteView, error) {
	var result []*models.NoteView
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		salt, err := s.userSalt(ctx, tx, userID)
		if err != nil {
			return err
		}

		list, err := s.repomanager.Notes(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}

		session, err := s.envelope.Open(userID, salt)
		if err != nil {
			return err
		}
		defer session.Close()

		result = make([]*models.NoteView, 0, len(list))
		for _, n := range list {
			content, err := session.Read(sealedOf(n), n.ID)
			if err != nil {
				if errors.Is(err, cryptox.ErrAuthentication) {
					s.logDecryptFailure(ctx, err, n)
					continue
				}
				return err
			}
			result = append(result, view(n, content))
		}

		if len(list) > 0 && len(result) == 0 {
			s.log.Error(ctx, "no note of the user authenticates",
				"user_id", userID, "notes", len(list), "bind_note_id", s.envelope.BindNoteID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update re-encrypts content under the note's existing key with a fresh IV.
// An empty tapeColor keeps the current one.
func (s *NoteService) Update(ctx context.Context, userID, noteID, content, tapeColor string) (*models.NoteView, error) {
	if tapeColor != "" && !tapeColorRe.MatchString(tapeColor) {
		return nil, fmt.Errorf("%w: tape color must look like #rrggbb", common.ErrorValidation)
	}
	if err := checkNoteID(noteID); err != nil {
		return nil, err
	}

	var updated *models.Note
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		salt, err := s.userSalt(ctx, tx, userID)
		if err != nil {
			return err
		}

		repo := s.repomanager.Notes(tx)
		n, err := repo.GetByUser(ctx, userID, noteID)
		if err != nil {
			return noteError(err)
		}

		sealed, err := s.envelope.Update(content, n.EncryptionKey, userID, salt, n.ID)
		if err != nil {
			s.logDecryptFailure(ctx, err, n)
			return noteError(err)
		}

		n.EncryptedContent = sealed.Ciphertext
		n.IV = sealed.IV
		if tapeColor != "" {
			n.TapeColor = tapeColor
		}

		updated, err = repo.UpdateContent(ctx, n)
		if err != nil {
			return noteError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "note updated", "user_id", userID, "note_id", noteID)
	return view(updated, content), nil
}

// Delete removes the note if it belongs to the user.
func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := checkNoteID(noteID); err != nil {
		return err
	}
	if err := s.repomanager.Notes(s.db).Delete(ctx, userID, noteID); err != nil {
		return noteError(err)
	}
	s.log.Info(ctx, "note deleted", "user_id", userID, "note_id", noteID)
	return nil
}

// checkNoteID rejects ids that cannot name a stored note before they reach
// the uuid column.
func checkNoteID(noteID string) error {
	if _, err := uuid.Parse(noteID); err != nil {
		return common.ErrorNoteUnavailable
	}
	return nil
}

// userSalt share-locks the user row, so a salt rotation cannot commit
// between reading the salt and reading the note keys wrapped under it.
func (s *NoteService) userSalt(ctx context.Context, tx dbx.DBTX, userID string) ([]byte, error) {
	user, err := s.repomanager.Users(tx).GetForShare(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}
	salt, err := cryptox.DecodeSalt(user.Salt)
	if err != nil {
		return nil, fmt.Errorf("stored salt: %w", err)
	}
	return salt, nil
}

func (s *NoteService) logDecryptFailure(ctx context.Context, err error, n *models.Note) {
	if errors.Is(err, cryptox.ErrAuthentication) {
		s.log.Warn(ctx, "note failed authentication", "user_id", n.UserID, "note_id", n.ID)
	}
}

func noteError(err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, cryptox.ErrAuthentication) {
		return common.ErrorNoteUnavailable
	}
	return err
}

func sealedOf(n *models.Note) cryptox.SealedNote {
	return cryptox.SealedNote{
		EncryptedContent: n.EncryptedContent,
		EncryptedKey:     n.EncryptionKey,
		IV:               n.IV,
	}
}

func view(n *models.Note, content string) *models.NoteView {
	return &models.NoteView{
		ID:        n.ID,
		UserID:    n.UserID,
		Content:   content,
		TapeColor: n.TapeColor,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

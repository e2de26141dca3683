// Package services contains server-side business logic: user lifecycle,
// note orchestration over the envelope and encrypted backups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/cryptox"
	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/logging"
	"github.com/dmitrijs2005/notespal/internal/server/config"
	"github.com/dmitrijs2005/notespal/internal/server/models"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/repomanager"
)

// RegisterInput is the profile of a user coming from the auth provider.
// ID is the provider's stable user identifier.
type RegisterInput struct {
	ID             string
	CustomerID     string
	Email          string
	FirstName      string
	LastName       string
	SubscribedTill *time.Time
}

// UserService manages users and the per-user salt their notes depend on.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	envelope    *cryptox.Envelope
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		envelope:    cryptox.NewEnvelope(cfg.BindNoteID),
		log:         log,
	}
}

// Register creates the user with a freshly generated salt.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if strings.TrimSpace(in.ID) == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrorValidation)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	user := &models.User{
		ID:             in.ID,
		CustomerID:     in.CustomerID,
		Email:          in.Email,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Salt:           salt,
		SubscribedTill: in.SubscribedTill,
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Get returns common.ErrorUserNotFound for unknown ids.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return u, nil
}

// Delete removes the user and, through the foreign key, every note. The
// salt goes with the row, so the notes could not be decrypted anyway.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return userError(err)
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// RotateSalt replaces the user's salt and re-wraps every note key under the
// new master key in one transaction. Note content is not re-encrypted. If
// any key fails to unwrap nothing is changed.
func (s *UserService) RotateSalt(ctx context.Context, id string) (int, error) {
	newSalt, err := cryptox.GenerateSalt()
	if err != nil {
		return 0, fmt.Errorf("generate salt: %w", err)
	}
	newSaltBytes, err := cryptox.DecodeSalt(newSalt)
	if err != nil {
		return 0, err
	}

	var rewrapped int
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repomanager.Users(tx)
		notesRepo := s.repomanager.Notes(tx)

		user, err := usersRepo.GetForUpdate(ctx, id)
		if err != nil {
			return userError(err)
		}
		oldSalt, err := cryptox.DecodeSalt(user.Salt)
		if err != nil {
			return fmt.Errorf("stored salt: %w", err)
		}

		list, err := notesRepo.ListByUser(ctx, id)
		if err != nil {
			return err
		}

		rotation, err := s.envelope.NewRotation(id, oldSalt, newSaltBytes)
		if err != nil {
			return err
		}
		defer rotation.Close()

		for _, n := range list {
			key, err := rotation.Rewrap(n.EncryptionKey, n.ID)
			if err != nil {
				if errors.Is(err, cryptox.ErrAuthentication) {
					s.log.Warn(ctx, "rotation aborted, note key failed authentication", "user_id", id, "note_id", n.ID)
					return fmt.Errorf("note %s: %w", n.ID, common.ErrorNoteUnavailable)
				}
				return err
			}
			if err := notesRepo.UpdateKey(ctx, id, n.ID, key); err != nil {
				return err
			}
			rewrapped++
		}

		return usersRepo.UpdateSalt(ctx, id, newSalt)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info(ctx, "salt rotated", "user_id", id, "notes", rewrapped)
	return rewrapped, nil
}

func userError(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUserNotFound
	}
	return err
}

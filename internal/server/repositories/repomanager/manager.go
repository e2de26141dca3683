package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notespal/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// use the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}

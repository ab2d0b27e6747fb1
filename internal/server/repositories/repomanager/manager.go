package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vocabkeeper/internal/dbx"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/vocabkeeper/internal/server/repositories/vocabularies"
)

// RepositoryManager vends repositories bound to a handle, so services can
// use the same repositories inside and outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Vocabularies(db dbx.DBTX) vocabularies.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}

package repomanager

import (
	"context"
	"database/sql"

	"github.com/delcom/marketplace/internal/dbx"
	"github.com/delcom/marketplace/internal/server/repositories/authtokens"
	"github.com/delcom/marketplace/internal/server/repositories/products"
	"github.com/delcom/marketplace/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	AuthTokens(db dbx.DBTX) authtokens.Repository
	Products(db dbx.DBTX) products.Repository
}

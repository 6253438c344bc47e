// Package database implements the store interfaces on top of sqlx.
package database

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/store"
)

type datastore struct {
	ctx    context.Context
	db     *db.DB
	logger *log.Logger

	*userStore
	*treeStore
	*editorStore
	*personStore
	*relationshipStore
	*loginCodeStore
}

// New returns a new store.Store database.
func New(ctx context.Context, db *db.DB) store.Store {
	logger := log.FromContext(ctx).WithPrefix("store")

	s := &datastore{
		ctx:    ctx,
		db:     db,
		logger: logger,

		userStore:         &userStore{},
		treeStore:         &treeStore{},
		editorStore:       &editorStore{},
		personStore:       &personStore{},
		relationshipStore: &relationshipStore{},
		loginCodeStore:    &loginCodeStore{},
	}

	return s
}

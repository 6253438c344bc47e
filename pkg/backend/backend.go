package backend

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/mail"
	"github.com/genesisgates/genesis/pkg/store"
	"github.com/microcosm-cc/bluemonday"
)

// Backend is the Genesis backend that handles members, trees, and the
// persons and relationships they hold.
type Backend struct {
	ctx    context.Context
	cfg    *config.Config
	db     *db.DB
	store  store.Store
	mailer mail.Mailer
	logger *log.Logger
	cache  *cache
	policy *bluemonday.Policy
	now    func() time.Time
}

// New returns a new Genesis backend.
func New(ctx context.Context, cfg *config.Config, db *db.DB, st store.Store, mailer mail.Mailer) *Backend {
	logger := log.FromContext(ctx).WithPrefix("backend")
	b := &Backend{
		ctx:    ctx,
		cfg:    cfg,
		db:     db,
		store:  st,
		mailer: mailer,
		logger: logger,
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
	}

	b.cache = newCache(b, 1000)

	return b
}

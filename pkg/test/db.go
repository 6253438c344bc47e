package test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/db/migrate"
)

// OpenDB opens a migrated temp SQLite database. The database is closed when
// the test is done.
func OpenDB(ctx context.Context, tb testing.TB) *db.DB {
	tb.Helper()

	dsn := filepath.Join(tb.TempDir(), "genesis.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	dbx, err := db.Open(ctx, "sqlite", dsn)
	if err != nil {
		tb.Fatalf("open database: %v", err)
	}
	tb.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			tb.Error(err)
		}
	})

	if _, err := migrate.Migrate(ctx, dbx); err != nil {
		tb.Fatalf("migrate database: %v", err)
	}

	return dbx
}

// Mailer records the login codes it is asked to deliver. When Err is set
// every delivery fails with it.
type Mailer struct {
	Err error

	mu    sync.Mutex
	codes map[string]string
}

// SendCode implements mail.Mailer.
func (m *Mailer) SendCode(_ context.Context, to, code string, _ time.Duration) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[to] = code
	return nil
}

// Code returns the last code delivered to email. The address is matched
// the way members are looked up, ignoring case and surrounding spaces.
func (m *Mailer) Code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[strings.ToLower(strings.TrimSpace(email))]
}

package serve

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/store/database"
	"github.com/genesisgates/genesis/pkg/test"
	"github.com/matryer/is"
)

func serverContext(tb testing.TB, cfg *config.Config) context.Context {
	tb.Helper()

	ctx := log.WithContext(context.TODO(), log.New(io.Discard))
	dbx := test.OpenDB(ctx, tb)
	be := backend.New(ctx, cfg, dbx, database.New(ctx, dbx), &test.Mailer{})
	ctx = config.WithContext(ctx, cfg)
	ctx = db.WithContext(ctx, dbx)
	return backend.WithContext(ctx, be)
}

func TestNewServer(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()

	s, err := NewServer(serverContext(t, cfg))
	is.NoErr(err)
	is.True(s.HTTPServer != nil)
	is.True(s.StatsServer != nil)
	is.Equal(len(s.Cron.Entries()), 1) // purge-login-codes
	is.NoErr(s.Close())
}

func TestNewServerDisabled(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.Stats.ListenAddr = ""
	cfg.Jobs.PurgeLoginCodes = ""

	s, err := NewServer(serverContext(t, cfg))
	is.NoErr(err)
	is.True(s.StatsServer == nil)
	is.Equal(len(s.Cron.Entries()), 0)
	is.NoErr(s.Close())
}

func TestNewServerNilConfig(t *testing.T) {
	is := is.New(t)
	_, err := NewServer(context.TODO())
	is.Equal(err, config.ErrNilConfig)
}

func TestServerStartShutdown(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.DataPath = t.TempDir()
	cfg.HTTP.ListenAddr = test.ListenAddr(t)
	cfg.Stats.ListenAddr = test.ListenAddr(t)

	s, err := NewServer(serverContext(t, cfg))
	is.NoErr(err)

	errc := make(chan error, 1)
	go func() { errc <- s.Start() }()

	var res *http.Response
	for i := 0; i < 50; i++ {
		res, err = http.Get("http://" + cfg.HTTP.ListenAddr + "/livez")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	is.NoErr(err)
	res.Body.Close() // nolint: errcheck
	is.Equal(res.StatusCode, http.StatusOK)

	ctx, cancel := context.WithTimeout(context.TODO(), 5*time.Second)
	defer cancel()
	is.NoErr(s.Shutdown(ctx))
	is.NoErr(<-errc)
}

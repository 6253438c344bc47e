package backend

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/genesisgates/genesis/pkg/store/database"
	"github.com/genesisgates/genesis/pkg/test"
)

type fixture struct {
	ctx    context.Context
	be     *Backend
	mailer *test.Mailer
	now    time.Time
}

func setup(tb testing.TB) *fixture {
	tb.Helper()

	ctx := log.WithContext(context.TODO(), log.New(io.Discard))
	cfg := config.DefaultConfig()
	cfg.DataPath = tb.TempDir()

	dbx := test.OpenDB(ctx, tb)
	mailer := &test.Mailer{}
	f := &fixture{
		ctx:    ctx,
		mailer: mailer,
		now:    time.Unix(1_700_000_000, 0),
	}
	f.be = New(ctx, cfg, dbx, database.New(ctx, dbx), mailer)
	f.be.now = func() time.Time { return f.now }

	return f
}

// login signs email in through the code flow.
func (f *fixture) login(tb testing.TB, email string) proto.User {
	tb.Helper()

	if err := f.be.StartLogin(f.ctx, email); err != nil {
		tb.Fatalf("StartLogin(%q) => %v", email, err)
	}
	u, err := f.be.VerifyLogin(f.ctx, email, f.mailer.Code(email))
	if err != nil {
		tb.Fatalf("VerifyLogin(%q) => %v", email, err)
	}
	return u
}

func (f *fixture) tree(tb testing.TB, owner proto.User, name string, public bool) proto.Tree {
	tb.Helper()

	t, err := f.be.CreateTree(f.ctx, owner, name, proto.TreeOptions{Public: public})
	if err != nil {
		tb.Fatalf("CreateTree(%q) => %v", name, err)
	}
	return t
}

package test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestListenAddr(t *testing.T) {
	is := is.New(t)
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		addr := ListenAddr(t)
		is.True(!seen[addr]) // addresses are unique
		seen[addr] = true

		l, err := net.Listen("tcp", addr)
		is.NoErr(err)
		is.NoErr(l.Close())
	}
}

func TestMailerCode(t *testing.T) {
	is := is.New(t)
	m := &Mailer{}
	is.NoErr(m.SendCode(context.TODO(), "ann@example.com", "123456", time.Minute))

	for _, email := range []string{"ann@example.com", "Ann@Example.com", "  ANN@example.com "} {
		if got := m.Code(email); got != "123456" {
			t.Errorf("Code(%q) => %q, want %q", email, got, "123456")
		}
	}
	is.Equal(m.Code("bob@example.com"), "")
}

package stats

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genesisgates/genesis/pkg/config"
	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHandler(t *testing.T) {
	is := is.New(t)

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "genesis",
		Name:      "test_total",
		Help:      "A counter for tests",
	})
	reg.MustRegister(c)
	c.Add(3)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	is.NoErr(err)
	defer resp.Body.Close() // nolint: errcheck
	is.Equal(resp.StatusCode, http.StatusOK)

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)
	is.True(strings.Contains(string(body), "genesis_test_total 3"))
}

func TestNewStatsServer(t *testing.T) {
	is := is.New(t)

	_, err := NewStatsServer(context.TODO())
	is.True(errors.Is(err, config.ErrNilConfig))

	cfg := config.DefaultConfig()
	s, err := NewStatsServer(config.WithContext(context.TODO(), cfg))
	is.NoErr(err)
	is.Equal(s.server.Addr, cfg.Stats.ListenAddr)
}

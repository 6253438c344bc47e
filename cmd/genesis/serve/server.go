package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/cron"
	"github.com/genesisgates/genesis/pkg/jobs"
	"github.com/genesisgates/genesis/pkg/stats"
	"github.com/genesisgates/genesis/pkg/web"
	"golang.org/x/sync/errgroup"
)

// Server is the Genesis server.
type Server struct {
	HTTPServer  *web.HTTPServer
	StatsServer *stats.StatsServer
	Cron        *cron.Scheduler
	Config      *config.Config
	Backend     *backend.Backend

	logger *log.Logger
	ctx    context.Context
}

// NewServer returns a new *Server. It expects a context carrying the
// config, logger, database, store, backend, and token codec.
func NewServer(ctx context.Context) (*Server, error) {
	var err error
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, config.ErrNilConfig
	}
	logger := log.FromContext(ctx).WithPrefix("server")
	srv := &Server{
		Config:  cfg,
		Backend: backend.FromContext(ctx),
		logger:  logger,
		ctx:     ctx,
	}

	sched := cron.NewScheduler(ctx)
	for _, j := range jobs.List() {
		spec := j.Runner.Spec(ctx)
		if spec == "" {
			logger.Debug("cron job disabled", "job", j.Name)
			continue
		}

		id, err := sched.AddNamed(j.Name, spec, j.Runner.Func(ctx))
		if err != nil {
			logger.Warn("error adding cron job", "job", j.Name, "err", err)
			continue
		}

		j.ID = id
	}

	srv.Cron = sched

	srv.HTTPServer, err = web.NewHTTPServer(ctx)
	if err != nil {
		return nil, fmt.Errorf("create http server: %w", err)
	}

	if cfg.Stats.ListenAddr != "" {
		srv.StatsServer, err = stats.NewStatsServer(ctx)
		if err != nil {
			return nil, fmt.Errorf("create stats server: %w", err)
		}
	}

	return srv, nil
}

// Start starts the HTTP server, the stats server when configured, and the
// cron scheduler. It blocks until a server fails or is shut down.
func (s *Server) Start() error {
	errg, _ := errgroup.WithContext(s.ctx)

	errg.Go(func() error {
		s.logger.Print("Starting HTTP server", "addr", s.Config.HTTP.ListenAddr)
		if err := s.HTTPServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if s.StatsServer != nil {
		errg.Go(func() error {
			s.logger.Print("Starting Stats server", "addr", s.Config.Stats.ListenAddr)
			if err := s.StatsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	errg.Go(func() error {
		s.Cron.Start()
		return nil
	})
	return errg.Wait()
}

// Shutdown lets the server gracefully shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return s.HTTPServer.Shutdown(ctx)
	})
	if s.StatsServer != nil {
		errg.Go(func() error {
			return s.StatsServer.Shutdown(ctx)
		})
	}
	errg.Go(func() error {
		for _, j := range jobs.List() {
			if j.ID != 0 {
				s.Cron.Remove(j.ID)
			}
		}
		s.Cron.Shutdown()
		return nil
	})
	return errg.Wait()
}

// Close closes the server immediately.
func (s *Server) Close() error {
	var errg errgroup.Group
	errg.Go(s.HTTPServer.Close)
	if s.StatsServer != nil {
		errg.Go(s.StatsServer.Close)
	}
	errg.Go(func() error {
		s.Cron.Shutdown()
		return nil
	})
	return errg.Wait()
}

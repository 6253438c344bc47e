// Package cmd holds the setup shared by the genesis subcommands.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
	"github.com/genesisgates/genesis/pkg/db"
	"github.com/genesisgates/genesis/pkg/mail"
	"github.com/genesisgates/genesis/pkg/store"
	"github.com/genesisgates/genesis/pkg/store/database"
	"github.com/genesisgates/genesis/pkg/token"
	"github.com/spf13/cobra"
)

// InitBackendContext opens the database and attaches the store, backend, and
// token codec to the command context. When no auth secret is configured a
// random one is generated for the lifetime of the process.
func InitBackendContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return config.ErrNilConfig
	}

	logger := log.FromContext(ctx)
	if _, err := os.Stat(cfg.DataPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(cfg.DataPath, os.ModePerm); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	generated, err := cfg.EnsureSecret()
	if err != nil {
		return err
	}
	if generated {
		logger.Warn("no auth secret configured, generated one for this process; sessions will not survive a restart",
			"env", config.EnvPrefix+"AUTH_SECRET")
	}

	codec, err := token.NewCodec([]byte(cfg.Auth.Secret),
		token.WithIssuer(cfg.HTTP.PublicURL),
		token.WithLogger(logger.WithPrefix("token")),
	)
	if err != nil {
		return fmt.Errorf("create token codec: %w", err)
	}

	dbx, err := db.Open(ctx, cfg.DB.Driver, cfg.DB.DataSource)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	mailer, err := mail.New(ctx, cfg)
	if err != nil {
		dbx.Close() // nolint: errcheck
		return fmt.Errorf("create mailer: %w", err)
	}

	ctx = db.WithContext(ctx, dbx)
	dbstore := database.New(ctx, dbx)
	ctx = store.WithContext(ctx, dbstore)
	be := backend.New(ctx, cfg, dbx, dbstore, mailer)
	ctx = backend.WithContext(ctx, be)
	ctx = token.WithContext(ctx, codec)

	cmd.SetContext(ctx)

	return nil
}

// CloseDBContext closes the database context.
func CloseDBContext(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dbx := db.FromContext(ctx)
	if dbx != nil {
		if err := dbx.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}

	return nil
}

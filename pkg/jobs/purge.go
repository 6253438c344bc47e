package jobs

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/backend"
	"github.com/genesisgates/genesis/pkg/config"
)

// PurgeLoginCodes is the name of the job that deletes expired login codes.
const PurgeLoginCodes = "purge-login-codes"

func init() {
	Register(PurgeLoginCodes, purgeLoginCodes{})
}

type purgeLoginCodes struct{}

var _ Runner = purgeLoginCodes{}

// Spec implements Runner.
func (purgeLoginCodes) Spec(ctx context.Context) string {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return ""
	}
	return cfg.Jobs.PurgeLoginCodes
}

// Func implements Runner.
func (purgeLoginCodes) Func(ctx context.Context) func() {
	be := backend.FromContext(ctx)
	logger := log.FromContext(ctx).WithPrefix("jobs.purge-login-codes")
	return func() {
		n, err := be.PurgeLoginCodes(ctx)
		if err != nil {
			logger.Error("error purging login codes", "err", err)
			return
		}
		if n > 0 {
			logger.Info("purged expired login codes", "count", n)
		}
	}
}

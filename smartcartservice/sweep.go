package smartcartservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/config"
	"github.com/RicheySon/smartcart-akedo/internal/services"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

const retentionSweepInterval = 24 * time.Hour

// startRetentionSweep purges audit entries older than the configured
// retention window, once at startup and then daily.
func startRetentionSweep(ctx context.Context, st store.Store, cfg *config.Config, log zerolog.Logger) {
	if cfg.AuditRetentionDays <= 0 {
		return
	}
	audit := services.NewAuditService(st, log)
	age := time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour
	go func() {
		ticker := time.NewTicker(retentionSweepInterval)
		defer ticker.Stop()
		for {
			if _, err := audit.PurgeOlderThan(ctx, age); err != nil {
				log.Warn().Err(err).Msg("Audit retention sweep failed")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

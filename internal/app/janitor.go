package app

import (
	"context"
	"time"

	"github.com/bobmcallan/ficopilot/internal/common"
	"github.com/bobmcallan/ficopilot/internal/interfaces"
)

// StartSessionJanitor launches the background sweep that discards idle
// sessions. Safe to call once; cancelled via Close.
func (a *App) StartSessionJanitor() {
	ctx, cancel := context.WithCancel(context.Background())
	a.janitorCancel = cancel

	go runSessionJanitor(ctx, a.Sessions, a.Logger,
		a.Config.Sessions.GetSweepInterval(),
		a.Config.Sessions.GetIdleTTL())
}

// runSessionJanitor prunes idle sessions on a fixed interval.
func runSessionJanitor(ctx context.Context, sessions interfaces.SessionStore, logger *common.Logger, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Session janitor: stopped")
			return
		case <-ticker.C:
			if pruned := sessions.PruneIdle(ttl); pruned > 0 {
				logger.Info().
					Int("pruned", pruned).
					Int("remaining", sessions.Count()).
					Msg("Session janitor: swept idle sessions")
			}
		}
	}
}

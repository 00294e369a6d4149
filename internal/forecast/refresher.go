package forecast

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher periodically reloads the model registry so forecasts track
// newly ingested demand history without a restart.
type Refresher struct {
	provider *Provider
	interval time.Duration
}

func NewRefresher(provider *Provider, interval time.Duration) *Refresher {
	return &Refresher{provider: provider, interval: interval}
}

// Run blocks until ctx is cancelled, reloading on each tick. A failed
// reload keeps the previous registry and is retried on the next tick.
func (r *Refresher) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reloadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := r.provider.Reload(reloadCtx)
			cancel()
			if err != nil {
				log.Warn().Err(err).Msg("Scheduled model reload failed, keeping current registry")
				continue
			}
			log.Info().
				Int64("version", r.provider.Version()).
				Int("models", len(r.provider.Current().AvailableTypes())).
				Msg("Forecast models reloaded on schedule")
		}
	}
}

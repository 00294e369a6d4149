package forecast

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
)

// NewHistoryLoader fits one model per blood type from the demand history
// store. Types with too little history are skipped with a warning; the load
// fails only when no model at all can be fitted.
func NewHistoryLoader(historyRepo repository.DemandHistoryRepository, windowDays int) Loader {
	return func(ctx context.Context) (*Registry, error) {
		history, err := historyRepo.GetHistory(ctx, windowDays)
		if err != nil {
			return nil, fmt.Errorf("failed to load demand history: %w", err)
		}

		models := make(map[domain.BloodType]Model)
		for bt, series := range history {
			model, err := FitModel(bt, series)
			if err != nil {
				log.Warn().Err(err).Str("blood_type", bt.String()).Msg("skipping model fit")
				continue
			}
			models[bt] = model
		}

		if len(models) == 0 {
			return nil, fmt.Errorf("%w: no blood type has enough history", ErrInsufficientHistory)
		}

		return NewRegistry(models), nil
	}
}

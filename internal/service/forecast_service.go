package service

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
)

const historyWindowDays = 30

// SummaryStats describes the predicted demand over a forecast.
type SummaryStats struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Std   float64 `json:"std"`
	Total float64 `json:"total"`
}

// ForecastResult is the full single-type forecast response.
type ForecastResult struct {
	BloodType   domain.BloodType            `json:"blood_type"`
	Points      []domain.DemandForecastPoint `json:"points"`
	Diagnostics forecast.ModelDiagnostics   `json:"diagnostics"`
	Summary     SummaryStats                `json:"summary"`
	History     []domain.DemandObservation  `json:"history,omitempty"`
}

// ForecastService serves registry forecasts. Reads go through the provider's
// current registry version; Reload swaps in a new one atomically.
type ForecastService struct {
	provider    *forecast.Provider
	historyRepo repository.DemandHistoryRepository
}

func NewForecastService(provider *forecast.Provider, historyRepo repository.DemandHistoryRepository) *ForecastService {
	return &ForecastService{provider: provider, historyRepo: historyRepo}
}

// Forecast validates the request and produces points, diagnostics and summary
// statistics for one blood type.
func (s *ForecastService) Forecast(ctx context.Context, bloodType string, periods int, confidenceLevel float64, includeHistory bool) (ForecastResult, error) {
	registry := s.provider.Current()

	points, err := registry.Forecast(bloodType, periods, confidenceLevel)
	if err != nil {
		return ForecastResult{}, err
	}

	bt := domain.BloodType(bloodType)
	result := ForecastResult{
		BloodType: bt,
		Points:    points,
		Summary:   summarize(points),
	}
	if model, ok := registry.Model(bt); ok {
		result.Diagnostics = model.Diagnostics()
	}

	if includeHistory && s.historyRepo != nil {
		history, err := s.historyRepo.GetHistory(ctx, historyWindowDays)
		if err != nil {
			log.Warn().Err(err).Str("blood_type", bloodType).Msg("failed to load demand history")
		} else {
			result.History = history[bt]
		}
	}

	return result, nil
}

// ForecastBatch forecasts several types independently, returning partial
// results plus an error list.
func (s *ForecastService) ForecastBatch(bloodTypes []string, periods int, confidenceLevel float64) forecast.BatchResult {
	return s.provider.Current().ForecastBatch(bloodTypes, periods, confidenceLevel)
}

// Models returns fit diagnostics for every registered model.
func (s *ForecastService) Models() []forecast.ModelDiagnostics {
	return s.provider.Current().Diagnostics()
}

// AvailableTypes lists the blood types with a fitted model.
func (s *ForecastService) AvailableTypes() []domain.BloodType {
	return s.provider.Current().AvailableTypes()
}

// Reload refits the registry from the demand history store and swaps it in.
func (s *ForecastService) Reload(ctx context.Context) error {
	return s.provider.Reload(ctx)
}

// Version reports the registry load generation, for observability.
func (s *ForecastService) Version() int64 {
	return s.provider.Version()
}

func summarize(points []domain.DemandForecastPoint) SummaryStats {
	if len(points) == 0 {
		return SummaryStats{}
	}

	stats := SummaryStats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, p := range points {
		stats.Total += p.PredictedDemand
		if p.PredictedDemand < stats.Min {
			stats.Min = p.PredictedDemand
		}
		if p.PredictedDemand > stats.Max {
			stats.Max = p.PredictedDemand
		}
	}
	stats.Mean = stats.Total / float64(len(points))

	var sumSq float64
	for _, p := range points {
		diff := p.PredictedDemand - stats.Mean
		sumSq += diff * diff
	}
	stats.Std = math.Sqrt(sumSq / float64(len(points)))

	return stats
}

// Package demand talks to the external demand forecasting collaborator and
// degrades to a static per-type baseline when it is unreachable.
package demand

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/IrrisMag/HealthTech-sub000/internal/cache"
	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/metrics"
)

// forecastResponse is the collaborator's wire format.
type forecastResponse struct {
	PredictedDemand float64 `json:"predicted_demand"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	Accuracy        float64 `json:"accuracy"`
}

// Client fetches per-type demand estimates with a bounded timeout. A timeout
// or non-2xx response downgrades to the configured fallback table, never to an
// error: callers always get a usable estimate.
type Client struct {
	baseURL  string
	http     *http.Client
	fallback map[string]float64
	cache    cache.DemandCache
}

func NewClient(cfg config.ForecastingConfig, demandCache cache.DemandCache) *Client {
	if demandCache == nil {
		demandCache = cache.NewNoopDemandCache()
	}
	return &Client{
		baseURL:  cfg.ServiceURL,
		http:     &http.Client{Timeout: cfg.Timeout},
		fallback: cfg.FallbackDemand,
		cache:    demandCache,
	}
}

// Estimate returns the aggregate demand for one blood type over the horizon.
// FallbackUsed marks estimates sourced from the static table.
func (c *Client) Estimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) domain.DemandEstimate {
	if cached, ok, err := c.cache.GetEstimate(ctx, bloodType, horizonDays); err == nil && ok {
		return cached
	} else if err != nil {
		log.Warn().Err(err).Str("blood_type", bloodType.String()).Msg("demand cache get failed")
	}

	estimate, err := c.fetch(ctx, bloodType, horizonDays)
	if err != nil {
		log.Warn().
			Err(err).
			Str("blood_type", bloodType.String()).
			Int("horizon_days", horizonDays).
			Msg("forecast service unavailable, using static fallback")
		metrics.ForecastFallbacks.WithLabelValues(bloodType.String()).Inc()
		return c.fallbackEstimate(bloodType, horizonDays)
	}

	if err := c.cache.SetEstimate(ctx, estimate); err != nil {
		log.Warn().Err(err).Str("blood_type", bloodType.String()).Msg("demand cache set failed")
	}

	return estimate
}

func (c *Client) fetch(ctx context.Context, bloodType domain.BloodType, horizonDays int) (domain.DemandEstimate, error) {
	if c.baseURL == "" {
		return domain.DemandEstimate{}, fmt.Errorf("forecast service not configured")
	}

	endpoint := fmt.Sprintf("%s/forecast/%s?horizon_days=%d",
		c.baseURL, url.PathEscape(bloodType.String()), horizonDays)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.DemandEstimate{}, fmt.Errorf("build forecast request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.DemandEstimate{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.DemandEstimate{}, fmt.Errorf("forecast service returned %d", resp.StatusCode)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.DemandEstimate{}, fmt.Errorf("decode forecast response: %w", err)
	}

	return domain.DemandEstimate{
		BloodType:       bloodType,
		HorizonDays:     horizonDays,
		PredictedDemand: payload.PredictedDemand,
		ConfidenceLower: payload.ConfidenceLower,
		ConfidenceUpper: payload.ConfidenceUpper,
		ModelAccuracy:   payload.Accuracy,
	}, nil
}

// fallbackEstimate scales the static per-type daily baseline by the horizon.
// The interval spread mirrors what the collaborator typically reports.
func (c *Client) fallbackEstimate(bloodType domain.BloodType, horizonDays int) domain.DemandEstimate {
	daily := c.fallback[bloodType.String()]
	total := daily * float64(horizonDays)

	return domain.DemandEstimate{
		BloodType:       bloodType,
		HorizonDays:     horizonDays,
		PredictedDemand: total,
		ConfidenceLower: total * 0.8,
		ConfidenceUpper: total * 1.2,
		FallbackUsed:    true,
	}
}

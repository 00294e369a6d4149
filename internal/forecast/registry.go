package forecast

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Registry is an immutable set of fitted models keyed by blood type. Build one
// with NewRegistry and never mutate it; swap whole registries through Provider.
type Registry struct {
	models map[domain.BloodType]Model
}

// NewRegistry builds a registry from fitted models.
func NewRegistry(models map[domain.BloodType]Model) *Registry {
	copied := make(map[domain.BloodType]Model, len(models))
	for bt, m := range models {
		copied[bt] = m
	}
	return &Registry{models: copied}
}

// AvailableTypes lists the blood types that have a fitted model, sorted.
func (r *Registry) AvailableTypes() []domain.BloodType {
	types := make([]domain.BloodType, 0, len(r.models))
	for bt := range r.models {
		types = append(types, bt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Forecast validates the request and produces horizonDays forecast points for
// one blood type.
func (r *Registry) Forecast(bloodType string, horizonDays int, confidenceLevel float64) ([]domain.DemandForecastPoint, error) {
	if err := ValidateRequest(bloodType, horizonDays, confidenceLevel); err != nil {
		return nil, err
	}

	model, ok := r.models[domain.BloodType(bloodType)]
	if !ok {
		available := r.AvailableTypes()
		labels := make([]string, len(available))
		for i, bt := range available {
			labels[i] = bt.String()
		}
		return nil, fmt.Errorf("%w: %s (available: %s)",
			ErrModelUnavailable, bloodType, strings.Join(labels, ", "))
	}

	return model.Forecast(horizonDays, confidenceLevel)
}

// BatchResult carries the per-type outcome of a batch forecast. Types that
// fail are reported in Errors; the rest still produce points.
type BatchResult struct {
	Forecasts map[domain.BloodType][]domain.DemandForecastPoint `json:"forecasts"`
	Errors    map[domain.BloodType]string                       `json:"errors,omitempty"`
}

// ForecastBatch forecasts several types independently. A failure for one type
// never fails the batch.
func (r *Registry) ForecastBatch(bloodTypes []string, horizonDays int, confidenceLevel float64) BatchResult {
	result := BatchResult{
		Forecasts: make(map[domain.BloodType][]domain.DemandForecastPoint),
		Errors:    make(map[domain.BloodType]string),
	}

	for _, raw := range bloodTypes {
		points, err := r.Forecast(raw, horizonDays, confidenceLevel)
		if err != nil {
			result.Errors[domain.BloodType(raw)] = err.Error()
			continue
		}
		result.Forecasts[domain.BloodType(raw)] = points
	}

	return result
}

// Diagnostics returns fit diagnostics for every registered model, sorted by type.
func (r *Registry) Diagnostics() []ModelDiagnostics {
	diags := make([]ModelDiagnostics, 0, len(r.models))
	for _, bt := range r.AvailableTypes() {
		diags = append(diags, r.models[bt].Diagnostics())
	}
	return diags
}

// Model returns the fitted model for one type, if present.
func (r *Registry) Model(bloodType domain.BloodType) (Model, bool) {
	m, ok := r.models[bloodType]
	return m, ok
}

// Loader produces a freshly fitted registry, typically from the demand history
// store. Used at startup and on explicit reload.
type Loader func(ctx context.Context) (*Registry, error)

// Provider owns the current registry behind an atomic pointer so reloads are
// visible to concurrent readers without locking. In-flight readers keep the
// registry version they started with.
type Provider struct {
	current atomic.Pointer[Registry]
	loader  Loader
	version atomic.Int64
}

// NewProvider loads the initial registry and returns a provider owning it.
func NewProvider(ctx context.Context, loader Loader) (*Provider, error) {
	p := &Provider{loader: loader}
	if err := p.Reload(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Current returns the registry version in effect right now.
func (p *Provider) Current() *Registry {
	return p.current.Load()
}

// Version returns the number of successful loads so far.
func (p *Provider) Version() int64 {
	return p.version.Load()
}

// Reload fits a whole new registry and swaps it in atomically. The previous
// registry stays valid for readers that already hold it; on load failure the
// previous registry stays in place.
func (p *Provider) Reload(ctx context.Context) error {
	registry, err := p.loader(ctx)
	if err != nil {
		return fmt.Errorf("registry reload failed: %w", err)
	}

	p.current.Store(registry)
	version := p.version.Add(1)
	log.Info().
		Int64("version", version).
		Int("models", len(registry.AvailableTypes())).
		Msg("forecast registry loaded")
	return nil
}

// Package optimizer turns per-type inventory metrics and demand estimates into
// ordering recommendations via interchangeable strategies.
package optimizer

import (
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/metrics"
)

// ErrInfeasible means the constrained solve cannot satisfy all constraints at
// once. The optimizer recovers by re-running the heuristic strategy.
var ErrInfeasible = errors.New("constrained optimization infeasible")

// Input is everything the strategies need for one blood type.
type Input struct {
	Metrics  domain.BloodInventoryMetrics
	Estimate domain.DemandEstimate
}

// Result is the outcome of one optimization pass.
type Result struct {
	Recommendations []domain.OptimizationRecommendation
	MethodUsed      domain.OptimizationMethod
	SolverFellBack  bool
}

// Optimizer dispatches to the configured strategy. It carries no state between
// runs; every call computes from its inputs alone.
type Optimizer struct {
	cfg config.OptimizerConfig
}

func New(cfg config.OptimizerConfig) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Optimize produces one recommendation per input type. The constrained
// strategy is primary; on infeasibility or solver failure it falls back to the
// heuristic strategy, never failing the run.
func (o *Optimizer) Optimize(method domain.OptimizationMethod, inputs map[domain.BloodType]Input, now time.Time) Result {
	ordered := orderedInputs(inputs)

	var (
		recs []domain.OptimizationRecommendation
		err  error
	)

	result := Result{MethodUsed: method}
	switch method {
	case domain.MethodHeuristic:
		recs = o.runHeuristic(ordered, now)
	case domain.MethodHybrid:
		recs = o.runHybrid(ordered, now)
	default:
		recs, err = o.runConstrained(ordered, now)
		if err != nil {
			log.Warn().Err(err).Msg("constrained solve failed, falling back to heuristic strategy")
			metrics.SolverFallbacks.Inc()
			recs = o.runHeuristic(ordered, now)
			result.MethodUsed = domain.MethodHeuristic
			result.SolverFellBack = true
		}
	}

	result.Recommendations = recs
	return result
}

// orderedInputs gives strategies a deterministic iteration order.
func orderedInputs(inputs map[domain.BloodType]Input) []Input {
	ordered := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		ordered = append(ordered, in)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Metrics.BloodType < ordered[j].Metrics.BloodType
	})
	return ordered
}

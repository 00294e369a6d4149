package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Hybrid refinement bounds: the heuristic quantity may be adjusted by at most
// this fraction either way.
const hybridAdjustmentCap = 0.2

// runHybrid runs the heuristic to pick an initial quantity, then refines it
// with the same scoring function used as an adjustment multiplier.
func (o *Optimizer) runHybrid(inputs []Input, now time.Time) []domain.OptimizationRecommendation {
	recs := make([]domain.OptimizationRecommendation, 0, len(inputs))
	for _, in := range inputs {
		state := newHeuristicState(in)
		action := chooseAction(state)
		initial := float64(in.Metrics.EOQ) * actionMultiplier(action)

		// How far the actual urgency sits from the chosen action's target
		// drives the refinement, capped at +/-20%.
		adjustment := 2 * (state.urgency() - actionTarget(action))
		if adjustment > hybridAdjustmentCap {
			adjustment = hybridAdjustmentCap
		}
		if adjustment < -hybridAdjustmentCap {
			adjustment = -hybridAdjustmentCap
		}

		quantity := int(math.Round(initial * (1 + adjustment)))

		reasoning := fmt.Sprintf(
			"Hybrid refined %s for %s by %+.0f%% (urgency %.2f): stock %d against reorder point %d.",
			action, in.Metrics.BloodType, adjustment*100, state.urgency(),
			in.Metrics.CurrentStock, in.Metrics.ReorderPoint)

		recs = append(recs, o.buildRecommendation(in.Metrics, quantity, reasoning, now))
	}
	return recs
}

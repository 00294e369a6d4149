package optimizer

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Constrained objective weights. Shortage against the safety target is priced
// at the emergency replacement cost, wastage at the unit cost scaled by the
// type's wastage rate.
const (
	maxOrderEOQFactor = 2
)

// orderPlan is the per-type working state of the constrained solve.
type orderPlan struct {
	input       Input
	minRequired int
	maxQuantity int
	desired     int
	quantity    int
	reduced     bool
	deferred    bool
}

// runConstrained minimizes total cost (ordering + holding + shortage penalty +
// wastage penalty) under the budget, storage and safety-stock constraints.
// Budget and storage are enforced by priority-ordered allocation; types that
// lose quantity to the budget carry an explicit reasoning note.
func (o *Optimizer) runConstrained(inputs []Input, now time.Time) ([]domain.OptimizationRecommendation, error) {
	totalStock := 0
	for _, in := range inputs {
		totalStock += in.Metrics.CurrentStock
	}

	storageLeft := o.cfg.StorageCapacity - totalStock
	if storageLeft < 0 {
		return nil, fmt.Errorf("%w: current inventory %d exceeds storage capacity %d",
			ErrInfeasible, totalStock, o.cfg.StorageCapacity)
	}
	if o.cfg.Budget <= 0 {
		return nil, fmt.Errorf("%w: no ordering budget", ErrInfeasible)
	}

	plans := make([]*orderPlan, 0, len(inputs))
	for _, in := range inputs {
		plan := &orderPlan{input: in}

		m := in.Metrics
		shortfall := in.Estimate.PredictedDemand + float64(m.SafetyStock) - float64(m.CurrentStock)
		plan.minRequired = int(math.Max(0, math.Ceil(shortfall)))

		plan.maxQuantity = maxOrderEOQFactor * m.EOQ
		if plan.maxQuantity > storageLeft {
			plan.maxQuantity = storageLeft
		}

		plan.desired = o.idealQuantity(in, plan.minRequired, plan.maxQuantity)
		plans = append(plans, plan)
	}

	// Most urgent first; budget shortfalls land on the least urgent types.
	sort.SliceStable(plans, func(i, j int) bool {
		ui, uj := allocationRank(plans[i].input.Metrics), allocationRank(plans[j].input.Metrics)
		if ui != uj {
			return ui < uj
		}
		return plans[i].input.Metrics.DaysOfSupply < plans[j].input.Metrics.DaysOfSupply
	})

	budgetLeft := o.cfg.Budget
	for _, plan := range plans {
		quantity := plan.desired
		if quantity > storageLeft {
			quantity = storageLeft
		}

		perUnit := plan.input.Metrics.UnitCost
		if isEmergency(plan.input.Metrics) {
			perUnit *= o.cfg.EmergencyMultiplier
		}

		if perUnit > 0 {
			affordable := int(math.Floor(budgetLeft / perUnit))
			if quantity > affordable {
				if affordable <= 0 {
					plan.deferred = plan.desired > 0
					quantity = 0
				} else {
					plan.reduced = true
					quantity = affordable
				}
			}
		}

		plan.quantity = quantity
		budgetLeft -= float64(quantity) * perUnit
		storageLeft -= quantity
	}

	// Restore the stable per-type order for the final recommendation set.
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].input.Metrics.BloodType < plans[j].input.Metrics.BloodType
	})

	recs := make([]domain.OptimizationRecommendation, 0, len(plans))
	for _, plan := range plans {
		recs = append(recs, o.buildRecommendation(plan.input.Metrics, plan.quantity, plan.reasoning(), now))
	}
	return recs, nil
}

// idealQuantity line-searches the integer order quantity minimizing the
// per-type cost. Quantities are bounded above by min(2 x EOQ, remaining
// storage); the safety-stock requirement enters as a shortage penalty so a
// tight budget degrades gracefully instead of failing.
func (o *Optimizer) idealQuantity(in Input, minRequired, maxQuantity int) int {
	m := in.Metrics
	holdingPerUnit := m.UnitCost * o.cfg.HoldingCostRate
	shortagePerUnit := m.UnitCost * o.cfg.EmergencyMultiplier
	wastagePerUnit := m.UnitCost * m.WastageRate

	target := in.Estimate.PredictedDemand + float64(m.SafetyStock)

	best := 0
	bestCost := math.Inf(1)
	for q := 0; q <= maxQuantity; q++ {
		cost := holdingPerUnit*float64(q)/2 + wastagePerUnit*float64(q)
		if q > 0 {
			cost += o.cfg.OrderingCost
		}
		shortage := target - float64(m.CurrentStock) - float64(q)
		if shortage > 0 {
			cost += shortagePerUnit * shortage
		}
		if cost < bestCost {
			best = q
			bestCost = cost
		}
	}

	if best < minRequired && minRequired <= maxQuantity {
		best = minRequired
	}
	return best
}

func isEmergency(m domain.BloodInventoryMetrics) bool {
	return m.CurrentStock == 0 || m.CurrentStock < m.SafetyStock
}

// allocationRank orders types for budget allocation: emergencies first, then
// types below their reorder point, then everyone else.
func allocationRank(m domain.BloodInventoryMetrics) int {
	switch {
	case isEmergency(m):
		return 0
	case m.CurrentStock < m.ReorderPoint:
		return 1
	default:
		return 2
	}
}

func (p *orderPlan) reasoning() string {
	m := p.input.Metrics
	base := fmt.Sprintf(
		"Constrained optimization ordered %d units for %s (minimum requirement %d, EOQ %d, stock %d).",
		p.quantity, m.BloodType, p.minRequired, m.EOQ, m.CurrentStock)

	switch {
	case p.deferred:
		return fmt.Sprintf(
			"Order for %s deferred: the remaining budget cannot cover any units (wanted %d).",
			m.BloodType, p.desired)
	case p.reduced:
		return base + fmt.Sprintf(
			" Reduced from %d units to stay within the budget constraint.", p.desired)
	default:
		return base
	}
}

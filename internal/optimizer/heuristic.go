package optimizer

import (
	"fmt"
	"math"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// candidateAction is one of the fixed ordering actions the heuristic scores.
type candidateAction string

const (
	actionOrderHigh   candidateAction = "order-high"
	actionOrderMedium candidateAction = "order-medium"
	actionOrderLow    candidateAction = "order-low"
	actionHold        candidateAction = "hold"
)

// EOQ multipliers per action.
const (
	orderHighMultiplier   = 1.5
	orderMediumMultiplier = 1.0
	orderLowMultiplier    = 0.5
)

// Scoring function coefficients. Urgency is a weighted blend of the normalized
// state; each action has a target urgency and the closest target wins.
const (
	weightStockGap   = 0.45
	weightDemand     = 0.25
	weightSupplyDays = 0.20
	weightWastage    = 0.10

	targetOrderHigh   = 0.9
	targetOrderMedium = 0.6
	targetOrderLow    = 0.35
	targetHold        = 0.1

	supplyDaysCap = 30.0
)

var candidateActions = []candidateAction{
	actionOrderHigh, actionOrderMedium, actionOrderLow, actionHold,
}

// heuristicState is the normalized view of one blood type's situation, every
// component scaled to [0, 1].
type heuristicState struct {
	stockRatio   float64
	demandTrend  float64
	daysOfSupply float64
	wastageRisk  float64
}

func newHeuristicState(in Input) heuristicState {
	m := in.Metrics

	reorder := float64(m.ReorderPoint)
	if reorder < 1 {
		reorder = 1
	}
	stockRatio := math.Min(1, float64(m.CurrentStock)/reorder)

	// Weekly demand against the economic order size.
	eoq := float64(m.EOQ)
	if eoq < 1 {
		eoq = 1
	}
	demandTrend := math.Min(1, m.DailyDemand*7/eoq)

	days := m.DaysOfSupply
	if math.IsInf(days, 1) || days > supplyDaysCap {
		days = supplyDaysCap
	}

	return heuristicState{
		stockRatio:   stockRatio,
		demandTrend:  demandTrend,
		daysOfSupply: days / supplyDaysCap,
		wastageRisk:  in.Metrics.WastageRate,
	}
}

// urgency blends the state into a single ordering-pressure value in [0, 1].
func (s heuristicState) urgency() float64 {
	u := weightStockGap*(1-s.stockRatio) +
		weightDemand*s.demandTrend +
		weightSupplyDays*(1-s.daysOfSupply) -
		weightWastage*s.wastageRisk
	return math.Max(0, math.Min(1, u))
}

func actionTarget(a candidateAction) float64 {
	switch a {
	case actionOrderHigh:
		return targetOrderHigh
	case actionOrderMedium:
		return targetOrderMedium
	case actionOrderLow:
		return targetOrderLow
	default:
		return targetHold
	}
}

// scoreAction grades how well an action fits the state; higher is better.
func scoreAction(s heuristicState, a candidateAction) float64 {
	return 1 - math.Abs(s.urgency()-actionTarget(a))
}

func actionMultiplier(a candidateAction) float64 {
	switch a {
	case actionOrderHigh:
		return orderHighMultiplier
	case actionOrderMedium:
		return orderMediumMultiplier
	case actionOrderLow:
		return orderLowMultiplier
	default:
		return 0
	}
}

// chooseAction evaluates every candidate and picks the highest score.
func chooseAction(s heuristicState) candidateAction {
	best := candidateActions[0]
	bestScore := scoreAction(s, best)
	for _, a := range candidateActions[1:] {
		if score := scoreAction(s, a); score > bestScore {
			best = a
			bestScore = score
		}
	}
	return best
}

// runHeuristic scores every type independently; quantity derives from EOQ
// scaled by the chosen action.
func (o *Optimizer) runHeuristic(inputs []Input, now time.Time) []domain.OptimizationRecommendation {
	recs := make([]domain.OptimizationRecommendation, 0, len(inputs))
	for _, in := range inputs {
		state := newHeuristicState(in)
		action := chooseAction(state)
		quantity := int(math.Round(float64(in.Metrics.EOQ) * actionMultiplier(action)))

		reasoning := fmt.Sprintf(
			"Heuristic selected %s (urgency %.2f) for %s: stock %d against reorder point %d, %.1f days of supply.",
			action, state.urgency(), in.Metrics.BloodType,
			in.Metrics.CurrentStock, in.Metrics.ReorderPoint, in.Metrics.DaysOfSupply)

		recs = append(recs, o.buildRecommendation(in.Metrics, quantity, reasoning, now))
	}
	return recs
}

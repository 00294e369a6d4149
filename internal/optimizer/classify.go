package optimizer

import (
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Confidence scoring constants. Base confidence follows stock urgency, then a
// wastage penalty and a days-of-supply adjustment apply, clamped to [0.1, 1.0].
const (
	confidenceEmergency = 0.9
	confidenceRoutine   = 0.8
	confidenceHold      = 0.7

	wastagePenaltyWeight = 0.2
	shortSupplyDays      = 7.0
	longSupplyDays       = 30.0
	supplyAdjustment     = 0.1

	confidenceFloor = 0.1
	confidenceCeil  = 1.0
)

const emergencyDeliveryDays = 1

// ClassifyStock maps current stock onto the stock-level scale. The result is
// monotonic in current stock for fixed thresholds.
func ClassifyStock(m domain.BloodInventoryMetrics) domain.StockLevel {
	switch {
	case m.CurrentStock == 0:
		return domain.StockCritical
	case m.CurrentStock < m.SafetyStock:
		return domain.StockLow
	case m.CurrentStock < m.ReorderPoint:
		return domain.StockAdequate
	case m.CurrentStock <= m.EOQ:
		return domain.StockOptimal
	default:
		return domain.StockExcess
	}
}

// buildRecommendation assembles the final recommendation for one type from the
// strategy-proposed quantity.
func (o *Optimizer) buildRecommendation(m domain.BloodInventoryMetrics, quantity int, reasoning string, now time.Time) domain.OptimizationRecommendation {
	if quantity < 0 {
		quantity = 0
	}

	level := ClassifyStock(m)

	var (
		recType  domain.RecommendationType
		priority domain.Priority
	)
	switch {
	case m.CurrentStock < m.SafetyStock || m.CurrentStock == 0:
		recType = domain.RecommendEmergencyOrder
		priority = domain.PriorityEmergency
	case m.CurrentStock < m.ReorderPoint:
		recType = domain.RecommendRoutineOrder
		priority = domain.PriorityHigh
	case quantity > 0:
		recType = domain.RecommendRoutineOrder
		priority = domain.PriorityMedium
	default:
		recType = domain.RecommendHold
		priority = domain.PriorityLow
	}

	cost := float64(quantity) * m.UnitCost
	deliveryDays := o.cfg.LeadTimeDays
	if recType == domain.RecommendEmergencyOrder {
		cost *= o.cfg.EmergencyMultiplier
		deliveryDays = emergencyDeliveryDays
	}

	return domain.OptimizationRecommendation{
		BloodType:            m.BloodType,
		StockLevel:           level,
		RecommendationType:   recType,
		RecommendedQuantity:  quantity,
		Priority:             priority,
		EstimatedCost:        cost,
		ExpectedDeliveryDate: now.AddDate(0, 0, deliveryDays),
		Reasoning:            reasoning,
		ConfidenceScore:      confidenceScore(recType, m),
	}
}

func confidenceScore(recType domain.RecommendationType, m domain.BloodInventoryMetrics) float64 {
	var score float64
	switch recType {
	case domain.RecommendEmergencyOrder:
		score = confidenceEmergency
	case domain.RecommendRoutineOrder:
		score = confidenceRoutine
	default:
		score = confidenceHold
	}

	score -= m.WastageRate * wastagePenaltyWeight

	if m.DaysOfSupply < shortSupplyDays {
		score += supplyAdjustment
	} else if m.DaysOfSupply > longSupplyDays {
		score -= supplyAdjustment
	}

	if score < confidenceFloor {
		return confidenceFloor
	}
	if score > confidenceCeil {
		return confidenceCeil
	}
	return score
}

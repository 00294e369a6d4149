// Package inventory derives per-blood-type ordering metrics from the current
// stock snapshot and a demand estimate.
package inventory

import (
	"math"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

const daysPerYear = 365

// MetricsCalculator computes EOQ, safety stock, reorder point and wastage
// estimates. It holds only configuration; the math is stateless.
type MetricsCalculator struct {
	leadTimeDays       int
	orderingCost       float64
	holdingCostRate    float64
	serviceLevelZ      float64
	shelfLifeReference float64
	wastageRateCap     float64
	storageCapacity    int
	unitCosts          map[string]float64
	shelfLifeDays      map[string]int
}

func NewMetricsCalculator(cfg config.OptimizerConfig) *MetricsCalculator {
	return &MetricsCalculator{
		leadTimeDays:       cfg.LeadTimeDays,
		orderingCost:       cfg.OrderingCost,
		holdingCostRate:    cfg.HoldingCostRate,
		serviceLevelZ:      cfg.ServiceLevelZ,
		shelfLifeReference: cfg.ShelfLifeReference,
		wastageRateCap:     cfg.WastageRateCap,
		storageCapacity:    cfg.StorageCapacity,
		unitCosts:          cfg.UnitCosts,
		shelfLifeDays:      cfg.ShelfLifeDays,
	}
}

// Calculate computes the inventory metrics for one blood type.
func (mc *MetricsCalculator) Calculate(stock domain.InventoryStockItem, estimate domain.DemandEstimate) domain.BloodInventoryMetrics {
	metrics := domain.BloodInventoryMetrics{
		BloodType:       stock.BloodType,
		CurrentStock:    stock.Units,
		UnitCost:        mc.unitCosts[stock.BloodType.String()],
		ShelfLifeDays:   mc.shelfLifeDays[stock.BloodType.String()],
		StorageCapacity: mc.storageCapacity,
	}

	// 1. Daily demand over the forecast horizon
	horizon := estimate.HorizonDays
	if horizon < 1 {
		horizon = 1
	}
	metrics.DailyDemand = estimate.PredictedDemand / float64(horizon)

	// 2. EOQ = sqrt(2 x annual demand x ordering cost / holding cost),
	//    with a 7-day-supply fallback when demand or holding cost is non-positive
	annualDemand := metrics.DailyDemand * daysPerYear
	holdingCost := metrics.UnitCost * mc.holdingCostRate
	if annualDemand > 0 && holdingCost > 0 {
		metrics.EOQ = int(math.Ceil(math.Sqrt(2 * annualDemand * mc.orderingCost / holdingCost)))
	} else {
		metrics.EOQ = int(math.Ceil(metrics.DailyDemand * 7))
	}
	if metrics.EOQ < 1 {
		metrics.EOQ = 1
	}

	// 3. Safety stock = floor(z x demand std dev x sqrt(lead time)),
	//    std dev taken from the daily confidence-interval width / 4
	dailyWidth := (estimate.ConfidenceUpper - estimate.ConfidenceLower) / float64(horizon)
	demandStdDev := math.Max(0, dailyWidth/4)
	safetyStock := math.Floor(mc.serviceLevelZ * demandStdDev * math.Sqrt(float64(mc.leadTimeDays)))
	metrics.SafetyStock = int(math.Max(0, safetyStock))

	// 4. Reorder point = floor(daily demand x lead time) + safety stock
	metrics.ReorderPoint = int(math.Max(0, math.Floor(metrics.DailyDemand*float64(mc.leadTimeDays)))) + metrics.SafetyStock

	// 5. Days of supply
	if metrics.DailyDemand > 0 {
		metrics.DaysOfSupply = float64(metrics.CurrentStock) / metrics.DailyDemand
	} else {
		metrics.DaysOfSupply = math.Inf(1)
	}

	// 6. Wastage rate from average remaining shelf life against the reference window
	metrics.WastageRate = mc.wastageRate(stock.AvgRemainingShelf)

	return metrics
}

// CalculateAll computes metrics for every type present in both the snapshot
// and the estimates.
func (mc *MetricsCalculator) CalculateAll(snapshot domain.InventorySnapshot, estimates map[domain.BloodType]domain.DemandEstimate) map[domain.BloodType]domain.BloodInventoryMetrics {
	result := make(map[domain.BloodType]domain.BloodInventoryMetrics)
	for bt, stock := range snapshot.Stock {
		estimate, ok := estimates[bt]
		if !ok {
			continue
		}
		result[bt] = mc.Calculate(stock, estimate)
	}
	return result
}

func (mc *MetricsCalculator) wastageRate(avgRemainingShelfDays float64) float64 {
	if mc.shelfLifeReference <= 0 {
		return 0
	}

	rate := 1 - avgRemainingShelfDays/mc.shelfLifeReference
	if rate < 0 {
		return 0
	}
	if rate > mc.wastageRateCap {
		return mc.wastageRateCap
	}
	return rate
}

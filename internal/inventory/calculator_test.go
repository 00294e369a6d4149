package inventory

import (
	"math"
	"testing"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

func testOptimizerConfig() config.OptimizerConfig {
	return config.OptimizerConfig{
		Budget:              50000,
		StorageCapacity:     2000,
		LeadTimeDays:        3,
		OrderingCost:        50,
		HoldingCostRate:     0.2,
		EmergencyMultiplier: 1.5,
		ServiceLevelZ:       1.645,
		ShelfLifeReference:  35,
		WastageRateCap:      0.15,
		UnitCosts:           map[string]float64{"O+": 150, "A-": 180},
		ShelfLifeDays:       map[string]int{"O+": 42, "A-": 42},
	}
}

func TestCalculateOrderingMetrics(t *testing.T) {
	calc := NewMetricsCalculator(testOptimizerConfig())

	stock := domain.InventoryStockItem{
		BloodType:         domain.OPositive,
		Units:             120,
		AvgRemainingShelf: 28,
	}
	estimate := domain.DemandEstimate{
		BloodType:       domain.OPositive,
		HorizonDays:     7,
		PredictedDemand: 70,
		ConfidenceLower: 56,
		ConfidenceUpper: 84,
	}

	m := calc.Calculate(stock, estimate)

	if m.DailyDemand != 10 {
		t.Errorf("DailyDemand = %g, want 10", m.DailyDemand)
	}

	// EOQ = ceil(sqrt(2 x 3650 x 50 / 30)) = ceil(110.3) = 111
	if m.EOQ != 111 {
		t.Errorf("EOQ = %d, want 111", m.EOQ)
	}

	// daily CI width 4 -> std dev 1 -> safety = floor(1.645 x 1 x sqrt(3)) = 2
	if m.SafetyStock != 2 {
		t.Errorf("SafetyStock = %d, want 2", m.SafetyStock)
	}

	// reorder = floor(10 x 3) + 2 = 32
	if m.ReorderPoint != 32 {
		t.Errorf("ReorderPoint = %d, want 32", m.ReorderPoint)
	}

	if m.DaysOfSupply != 12 {
		t.Errorf("DaysOfSupply = %g, want 12", m.DaysOfSupply)
	}

	// wastage = 1 - 28/35 = 0.2, clamped at 0.15
	if m.WastageRate != 0.15 {
		t.Errorf("WastageRate = %g, want 0.15", m.WastageRate)
	}

	if m.ReorderPoint < m.SafetyStock {
		t.Error("reorder point below safety stock")
	}
}

func TestCalculateDegenerateDemand(t *testing.T) {
	calc := NewMetricsCalculator(testOptimizerConfig())

	stock := domain.InventoryStockItem{BloodType: domain.ANegative, Units: 40, AvgRemainingShelf: 38}
	estimate := domain.DemandEstimate{BloodType: domain.ANegative, HorizonDays: 7}

	m := calc.Calculate(stock, estimate)

	if m.EOQ < 1 {
		t.Errorf("EOQ = %d, must be at least 1", m.EOQ)
	}
	if m.SafetyStock != 0 {
		t.Errorf("SafetyStock = %d, want 0", m.SafetyStock)
	}
	if m.ReorderPoint != 0 {
		t.Errorf("ReorderPoint = %d, want 0", m.ReorderPoint)
	}
	if !math.IsInf(m.DaysOfSupply, 1) {
		t.Errorf("DaysOfSupply = %g, want +Inf for zero demand", m.DaysOfSupply)
	}
	// Shelf life beyond the reference window means no projected wastage.
	if m.WastageRate != 0 {
		t.Errorf("WastageRate = %g, want 0", m.WastageRate)
	}
}

func TestCalculateZeroHorizonTreatedAsOneDay(t *testing.T) {
	calc := NewMetricsCalculator(testOptimizerConfig())

	stock := domain.InventoryStockItem{BloodType: domain.OPositive, Units: 10, AvgRemainingShelf: 30}
	estimate := domain.DemandEstimate{BloodType: domain.OPositive, PredictedDemand: 5}

	m := calc.Calculate(stock, estimate)
	if m.DailyDemand != 5 {
		t.Errorf("DailyDemand = %g, want 5", m.DailyDemand)
	}
}

func TestWastageRateBounds(t *testing.T) {
	calc := NewMetricsCalculator(testOptimizerConfig())

	tests := []struct {
		name  string
		shelf float64
		want  float64
	}{
		{name: "fresh stock", shelf: 35, want: 0},
		{name: "beyond reference", shelf: 50, want: 0},
		{name: "mid shelf", shelf: 31.5, want: 0.1},
		{name: "old stock capped", shelf: 0, want: 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.wastageRate(tt.shelf)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("wastageRate(%g) = %g, want %g", tt.shelf, got, tt.want)
			}
		})
	}
}

func TestCalculateAllSkipsTypesWithoutEstimates(t *testing.T) {
	calc := NewMetricsCalculator(testOptimizerConfig())

	snapshot := domain.InventorySnapshot{
		Stock: map[domain.BloodType]domain.InventoryStockItem{
			domain.OPositive: {BloodType: domain.OPositive, Units: 100, AvgRemainingShelf: 30},
			domain.ANegative: {BloodType: domain.ANegative, Units: 20, AvgRemainingShelf: 25},
		},
	}
	estimates := map[domain.BloodType]domain.DemandEstimate{
		domain.OPositive: {BloodType: domain.OPositive, HorizonDays: 7, PredictedDemand: 70},
	}

	result := calc.CalculateAll(snapshot, estimates)
	if len(result) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result))
	}
	if _, ok := result[domain.OPositive]; !ok {
		t.Error("expected O+ metrics")
	}
}

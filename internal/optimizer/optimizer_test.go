package optimizer

import (
	"math"
	"strings"
	"testing"
	"time"

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
		UnitCosts:           map[string]float64{"O+": 150, "A-": 180, "B+": 120},
		ShelfLifeDays:       map[string]int{"O+": 42, "A-": 42, "B+": 42},
	}
}

func TestClassifyStock(t *testing.T) {
	base := domain.BloodInventoryMetrics{SafetyStock: 10, ReorderPoint: 30, EOQ: 60}

	tests := []struct {
		stock int
		want  domain.StockLevel
	}{
		{stock: 0, want: domain.StockCritical},
		{stock: 5, want: domain.StockLow},
		{stock: 9, want: domain.StockLow},
		{stock: 10, want: domain.StockAdequate},
		{stock: 29, want: domain.StockAdequate},
		{stock: 30, want: domain.StockOptimal},
		{stock: 60, want: domain.StockOptimal},
		{stock: 61, want: domain.StockExcess},
		{stock: 500, want: domain.StockExcess},
	}

	prev := domain.StockCritical
	order := map[domain.StockLevel]int{
		domain.StockCritical: 0, domain.StockLow: 1, domain.StockAdequate: 2,
		domain.StockOptimal: 3, domain.StockExcess: 4,
	}

	for _, tt := range tests {
		m := base
		m.CurrentStock = tt.stock
		got := ClassifyStock(m)
		if got != tt.want {
			t.Errorf("ClassifyStock(stock=%d) = %v, want %v", tt.stock, got, tt.want)
		}
		// Classification never goes backwards as stock grows.
		if order[got] < order[prev] {
			t.Errorf("classification regressed at stock=%d: %v after %v", tt.stock, got, prev)
		}
		prev = got
	}
}

func TestEmergencyOrderForStockout(t *testing.T) {
	opt := New(testOptimizerConfig())
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	inputs := map[domain.BloodType]Input{
		domain.ANegative: {
			Metrics: domain.BloodInventoryMetrics{
				BloodType:    domain.ANegative,
				CurrentStock: 0,
				SafetyStock:  10,
				ReorderPoint: 25,
				EOQ:          30,
				DailyDemand:  5,
				DaysOfSupply: 0,
				UnitCost:     180,
			},
			Estimate: domain.DemandEstimate{
				BloodType:       domain.ANegative,
				HorizonDays:     7,
				PredictedDemand: 35,
			},
		},
	}

	result := opt.Optimize(domain.MethodHeuristic, inputs, now)
	if len(result.Recommendations) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(result.Recommendations))
	}

	rec := result.Recommendations[0]
	if rec.StockLevel != domain.StockCritical {
		t.Errorf("StockLevel = %v, want critical", rec.StockLevel)
	}
	if rec.RecommendationType != domain.RecommendEmergencyOrder {
		t.Errorf("RecommendationType = %v, want emergency_order", rec.RecommendationType)
	}
	if rec.Priority != domain.PriorityEmergency {
		t.Errorf("Priority = %v, want emergency", rec.Priority)
	}
	if rec.RecommendedQuantity <= 0 {
		t.Errorf("RecommendedQuantity = %d, want positive", rec.RecommendedQuantity)
	}

	// Emergency orders price at the emergency multiplier and arrive next day.
	wantCost := float64(rec.RecommendedQuantity) * 180 * 1.5
	if math.Abs(rec.EstimatedCost-wantCost) > 1e-9 {
		t.Errorf("EstimatedCost = %g, want %g", rec.EstimatedCost, wantCost)
	}
	if !rec.ExpectedDeliveryDate.Equal(now.AddDate(0, 0, 1)) {
		t.Errorf("ExpectedDeliveryDate = %v, want next day", rec.ExpectedDeliveryDate)
	}
}

func TestRoutineOrderCostHasNoMultiplier(t *testing.T) {
	opt := New(testOptimizerConfig())
	now := time.Now().UTC()

	m := domain.BloodInventoryMetrics{
		BloodType:    domain.BPositive,
		CurrentStock: 20,
		SafetyStock:  10,
		ReorderPoint: 30,
		EOQ:          40,
		DailyDemand:  4,
		DaysOfSupply: 5,
		UnitCost:     120,
	}

	rec := opt.buildRecommendation(m, 40, "test", now)
	if rec.RecommendationType != domain.RecommendRoutineOrder {
		t.Fatalf("RecommendationType = %v, want routine_order", rec.RecommendationType)
	}
	if rec.EstimatedCost != 40*120 {
		t.Errorf("EstimatedCost = %g, want %g", rec.EstimatedCost, float64(40*120))
	}
	if !rec.ExpectedDeliveryDate.Equal(now.AddDate(0, 0, 3)) {
		t.Errorf("ExpectedDeliveryDate = %v, want lead time out", rec.ExpectedDeliveryDate)
	}
}

func TestConfidenceScoreBounds(t *testing.T) {
	tests := []struct {
		name    string
		recType domain.RecommendationType
		metrics domain.BloodInventoryMetrics
		want    float64
	}{
		{
			name:    "emergency with short supply",
			recType: domain.RecommendEmergencyOrder,
			metrics: domain.BloodInventoryMetrics{DaysOfSupply: 2},
			want:    1.0,
		},
		{
			name:    "routine mid supply",
			recType: domain.RecommendRoutineOrder,
			metrics: domain.BloodInventoryMetrics{DaysOfSupply: 15},
			want:    0.8,
		},
		{
			name:    "hold with long supply and wastage",
			recType: domain.RecommendHold,
			metrics: domain.BloodInventoryMetrics{DaysOfSupply: 45, WastageRate: 0.15},
			want:    0.7 - 0.15*0.2 - 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := confidenceScore(tt.recType, tt.metrics)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("confidenceScore = %g, want %g", got, tt.want)
			}
			if got < 0.1 || got > 1.0 {
				t.Errorf("confidenceScore = %g outside [0.1, 1.0]", got)
			}
		})
	}
}

func TestHeuristicHoldsOnAbundantStock(t *testing.T) {
	opt := New(testOptimizerConfig())

	inputs := map[domain.BloodType]Input{
		domain.OPositive: {
			Metrics: domain.BloodInventoryMetrics{
				BloodType:    domain.OPositive,
				CurrentStock: 200,
				SafetyStock:  5,
				ReorderPoint: 15,
				EOQ:          50,
				DailyDemand:  0.5,
				DaysOfSupply: 400,
				UnitCost:     150,
			},
			Estimate: domain.DemandEstimate{BloodType: domain.OPositive, HorizonDays: 7, PredictedDemand: 3.5},
		},
	}

	result := opt.Optimize(domain.MethodHeuristic, inputs, time.Now().UTC())
	rec := result.Recommendations[0]

	if rec.RecommendationType != domain.RecommendHold {
		t.Errorf("RecommendationType = %v, want hold", rec.RecommendationType)
	}
	if rec.RecommendedQuantity != 0 {
		t.Errorf("RecommendedQuantity = %d, want 0", rec.RecommendedQuantity)
	}
	if rec.Priority != domain.PriorityLow {
		t.Errorf("Priority = %v, want low", rec.Priority)
	}
}

func TestHybridStaysWithinAdjustmentCap(t *testing.T) {
	opt := New(testOptimizerConfig())

	inputs := []Input{
		{
			Metrics: domain.BloodInventoryMetrics{
				BloodType:    domain.BPositive,
				CurrentStock: 8,
				SafetyStock:  10,
				ReorderPoint: 25,
				EOQ:          40,
				DailyDemand:  6,
				DaysOfSupply: 1.3,
				UnitCost:     120,
			},
			Estimate: domain.DemandEstimate{BloodType: domain.BPositive, HorizonDays: 7, PredictedDemand: 42},
		},
	}

	state := newHeuristicState(inputs[0])
	action := chooseAction(state)
	base := float64(inputs[0].Metrics.EOQ) * actionMultiplier(action)

	recs := opt.runHybrid(inputs, time.Now().UTC())
	got := float64(recs[0].RecommendedQuantity)

	if got < math.Round(base*0.8) || got > math.Round(base*1.2) {
		t.Errorf("hybrid quantity %g outside +/-20%% of heuristic base %g", got, base)
	}
}

func TestConstrainedBudgetCap(t *testing.T) {
	cfg := testOptimizerConfig()
	cfg.Budget = 1000
	opt := New(cfg)

	mkInput := func(bt domain.BloodType, daysOfSupply float64) Input {
		return Input{
			Metrics: domain.BloodInventoryMetrics{
				BloodType:    bt,
				CurrentStock: 2,
				SafetyStock:  5,
				ReorderPoint: 20,
				EOQ:          20,
				DailyDemand:  5,
				DaysOfSupply: daysOfSupply,
				UnitCost:     100,
			},
			Estimate: domain.DemandEstimate{BloodType: bt, HorizonDays: 7, PredictedDemand: 35},
		}
	}

	inputs := map[domain.BloodType]Input{
		domain.OPositive: mkInput(domain.OPositive, 0.4),
		domain.APositive: mkInput(domain.APositive, 0.5),
	}

	result := opt.Optimize(domain.MethodConstrained, inputs, time.Now().UTC())
	if result.SolverFellBack {
		t.Fatal("budget pressure should not trigger the heuristic fallback")
	}

	totalCost := 0.0
	budgetMentioned := false
	for _, rec := range result.Recommendations {
		totalCost += rec.EstimatedCost
		if strings.Contains(rec.Reasoning, "budget") {
			budgetMentioned = true
		}
	}

	if totalCost > cfg.Budget+1e-9 {
		t.Errorf("total cost %g exceeds budget %g", totalCost, cfg.Budget)
	}
	if !budgetMentioned {
		t.Error("expected at least one reasoning to mention the budget constraint")
	}
}

func TestConstrainedInfeasibleFallsBackToHeuristic(t *testing.T) {
	cfg := testOptimizerConfig()
	cfg.Budget = 0
	opt := New(cfg)

	inputs := map[domain.BloodType]Input{
		domain.OPositive: {
			Metrics: domain.BloodInventoryMetrics{
				BloodType:    domain.OPositive,
				CurrentStock: 50,
				SafetyStock:  5,
				ReorderPoint: 20,
				EOQ:          40,
				DailyDemand:  5,
				DaysOfSupply: 10,
				UnitCost:     150,
			},
			Estimate: domain.DemandEstimate{BloodType: domain.OPositive, HorizonDays: 7, PredictedDemand: 35},
		},
	}

	result := opt.Optimize(domain.MethodConstrained, inputs, time.Now().UTC())

	if !result.SolverFellBack {
		t.Fatal("expected fallback to the heuristic strategy")
	}
	if result.MethodUsed != domain.MethodHeuristic {
		t.Errorf("MethodUsed = %v, want heuristic", result.MethodUsed)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("expected 1 recommendation, got %d", len(result.Recommendations))
	}
}

func TestRecommendationsSortedByBloodType(t *testing.T) {
	opt := New(testOptimizerConfig())

	mk := func(bt domain.BloodType) Input {
		return Input{
			Metrics: domain.BloodInventoryMetrics{
				BloodType: bt, CurrentStock: 30, SafetyStock: 5, ReorderPoint: 15,
				EOQ: 40, DailyDemand: 3, DaysOfSupply: 10, UnitCost: 100,
			},
			Estimate: domain.DemandEstimate{BloodType: bt, HorizonDays: 7, PredictedDemand: 21},
		}
	}

	inputs := map[domain.BloodType]Input{
		domain.OPositive:  mk(domain.OPositive),
		domain.ABNegative: mk(domain.ABNegative),
		domain.BPositive:  mk(domain.BPositive),
	}

	for _, method := range []domain.OptimizationMethod{domain.MethodConstrained, domain.MethodHeuristic, domain.MethodHybrid} {
		result := opt.Optimize(method, inputs, time.Now().UTC())
		for i := 1; i < len(result.Recommendations); i++ {
			if result.Recommendations[i-1].BloodType >= result.Recommendations[i].BloodType {
				t.Errorf("%s: recommendations not sorted by blood type", method)
			}
		}
	}
}

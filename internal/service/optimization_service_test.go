package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/IrrisMag/HealthTech-sub000/internal/clinical"
	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/inventory"
	"github.com/IrrisMag/HealthTech-sub000/internal/optimizer"
	"github.com/IrrisMag/HealthTech-sub000/internal/report"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository/memory"
)

// stubEstimator serves canned estimates and marks configured types as fallback.
type stubEstimator struct {
	daily    map[domain.BloodType]float64
	fallback map[domain.BloodType]bool
}

func (s *stubEstimator) Estimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) domain.DemandEstimate {
	total := s.daily[bloodType] * float64(horizonDays)
	return domain.DemandEstimate{
		BloodType:       bloodType,
		HorizonDays:     horizonDays,
		PredictedDemand: total,
		ConfidenceLower: total * 0.8,
		ConfidenceUpper: total * 1.2,
		FallbackUsed:    s.fallback[bloodType],
	}
}

func testService(t *testing.T, estimator DemandEstimator) (*OptimizationService, *memory.ReportRepository) {
	t.Helper()

	optCfg := config.OptimizerConfig{
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
	clinCfg := config.ClinicalConfig{
		DonationIntervalDays: 56,
		SeasonalFactors:      map[string]float64{"winter": 0.85, "spring": 1.10, "summer": 0.90, "fall": 1.05},
		TypicalDailyDemand:   map[string]float64{"O+": 10, "A-": 3, "B+": 5},
	}

	donorRepo := memory.NewDonorRepository()
	var batch []domain.DonorClinicalRecord
	for i, bt := range []domain.BloodType{domain.OPositive, domain.ANegative, domain.BPositive} {
		for n := 0; n < 60; n++ {
			status := domain.EligibilityEligible
			if n%5 == 0 {
				status = domain.EligibilityTemporarilyDeferred
			}
			batch = append(batch, domain.DonorClinicalRecord{
				DonorID:          fmt.Sprintf("%s-%02d-%02d", bt, i, n),
				BloodType:        bt,
				Eligibility:      status,
				HasMedicalRecord: true,
				ScreeningResult:  "passed",
			})
		}
	}
	donorRepo.LoadBatch(batch)

	invRepo := memory.NewInventoryRepository()
	invRepo.SetStock(domain.InventoryStockItem{BloodType: domain.OPositive, Units: 120, AvgRemainingShelf: 28})
	invRepo.SetStock(domain.InventoryStockItem{BloodType: domain.ANegative, Units: 0, AvgRemainingShelf: 0})
	invRepo.SetStock(domain.InventoryStockItem{BloodType: domain.BPositive, Units: 60, AvgRemainingShelf: 32})

	reportRepo := memory.NewReportRepository()

	svc := NewOptimizationService(
		donorRepo,
		invRepo,
		reportRepo,
		estimator,
		clinical.NewSupplyPredictor(clinCfg),
		inventory.NewMetricsCalculator(optCfg),
		optimizer.New(optCfg),
		report.NewAggregator(optCfg.Budget),
		nil,
	)
	return svc, reportRepo
}

func TestOptimizeInventoryFullRun(t *testing.T) {
	estimator := &stubEstimator{
		daily: map[domain.BloodType]float64{
			domain.OPositive: 10, domain.ANegative: 4, domain.BPositive: 6,
		},
	}
	svc, reportRepo := testService(t, estimator)

	rep, err := svc.OptimizeInventory(context.Background(), domain.MethodConstrained, 7)
	if err != nil {
		t.Fatalf("OptimizeInventory: %v", err)
	}

	if rep.ID == "" {
		t.Error("report ID should be set")
	}
	if rep.HorizonDays != 7 {
		t.Errorf("HorizonDays = %d, want 7", rep.HorizonDays)
	}
	if len(rep.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(rep.Recommendations))
	}
	if len(rep.SupplyMetrics) != 3 {
		t.Errorf("expected supply metrics for 3 types, got %d", len(rep.SupplyMetrics))
	}
	if len(rep.FallbackTypes) != 0 {
		t.Errorf("FallbackTypes = %v, want none", rep.FallbackTypes)
	}

	// The stocked-out type must come back as an emergency.
	var aNeg *domain.OptimizationRecommendation
	for i := range rep.Recommendations {
		if rep.Recommendations[i].BloodType == domain.ANegative {
			aNeg = &rep.Recommendations[i]
		}
	}
	if aNeg == nil {
		t.Fatal("no recommendation for A-")
	}
	if aNeg.StockLevel != domain.StockCritical {
		t.Errorf("A- StockLevel = %v, want critical", aNeg.StockLevel)
	}
	if aNeg.Priority != domain.PriorityEmergency {
		t.Errorf("A- Priority = %v, want emergency", aNeg.Priority)
	}

	// The run is persisted and retrievable.
	stored, err := svc.GetReport(context.Background(), rep.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if stored.ID != rep.ID {
		t.Errorf("stored report ID = %q, want %q", stored.ID, rep.ID)
	}

	listed, err := reportRepo.ListReports(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("expected 1 persisted report, got %d", len(listed))
	}
}

func TestOptimizeInventoryPartialForecastFailure(t *testing.T) {
	estimator := &stubEstimator{
		daily: map[domain.BloodType]float64{
			domain.OPositive: 10, domain.ANegative: 4, domain.BPositive: 6,
		},
		fallback: map[domain.BloodType]bool{domain.ANegative: true},
	}
	svc, _ := testService(t, estimator)

	rep, err := svc.OptimizeInventory(context.Background(), domain.MethodHeuristic, 7)
	if err != nil {
		t.Fatalf("OptimizeInventory: %v", err)
	}

	// One type on fallback does not shrink the recommendation set.
	if len(rep.Recommendations) != 3 {
		t.Errorf("expected 3 recommendations, got %d", len(rep.Recommendations))
	}
	if len(rep.FallbackTypes) != 1 || rep.FallbackTypes[0] != domain.ANegative {
		t.Errorf("FallbackTypes = %v, want [A-]", rep.FallbackTypes)
	}
	if rep.Method != domain.MethodHeuristic {
		t.Errorf("Method = %v, want heuristic", rep.Method)
	}
}

func TestOptimizeInventoryZeroDemandReportEncodes(t *testing.T) {
	// Zero estimates make days of supply infinite for every stocked type;
	// the report must still encode for persistence and the API response.
	estimator := &stubEstimator{
		daily: map[domain.BloodType]float64{
			domain.OPositive: 0, domain.ANegative: 0, domain.BPositive: 0,
		},
	}
	svc, _ := testService(t, estimator)

	rep, err := svc.OptimizeInventory(context.Background(), domain.MethodHeuristic, 7)
	if err != nil {
		t.Fatalf("OptimizeInventory: %v", err)
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("Marshal(report): %v", err)
	}

	var decoded domain.OptimizationReport
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Unmarshal(report): %v", err)
	}
	oPos, ok := decoded.InventoryMetrics[domain.OPositive]
	if !ok {
		t.Fatal("no inventory metrics for O+ after round trip")
	}
	if !math.IsInf(oPos.DaysOfSupply, 1) {
		t.Errorf("O+ DaysOfSupply = %v, want +Inf", oPos.DaysOfSupply)
	}
}

func TestOptimizeInventoryRejectsBadHorizon(t *testing.T) {
	svc, _ := testService(t, &stubEstimator{daily: map[domain.BloodType]float64{}})

	for _, horizon := range []int{0, -1, 366} {
		_, err := svc.OptimizeInventory(context.Background(), domain.MethodConstrained, horizon)
		if !errors.Is(err, forecast.ErrInvalidHorizon) {
			t.Errorf("horizon %d: error = %v, want ErrInvalidHorizon", horizon, err)
		}
	}
}

func TestGetReportNotFound(t *testing.T) {
	svc, _ := testService(t, &stubEstimator{daily: map[domain.BloodType]float64{}})

	_, err := svc.GetReport(context.Background(), "missing-id")
	if !errors.Is(err, repository.ErrReportNotFound) {
		t.Errorf("error = %v, want ErrReportNotFound", err)
	}
}

// Package report scores run-wide risk, grades performance, and assembles the
// final optimization report.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Risk score weighting and level thresholds.
const (
	supplyRiskWeight  = 0.4
	costRiskWeight    = 0.4
	wastageRiskWeight = 0.2

	highRiskAbove   = 0.7
	mediumRiskAbove = 0.4
)

// Optimization score weighting.
const (
	serviceLevelWeight   = 0.4
	costEfficiencyWeight = 0.3
	confidenceWeight     = 0.3

	minBudgetUtilization = 0.1
)

// Aggregator assembles OptimizationReports. Stateless; safe for concurrent use.
type Aggregator struct {
	budget float64
}

func NewAggregator(budget float64) *Aggregator {
	return &Aggregator{budget: budget}
}

// RunInput is everything one finished optimization pass feeds the aggregator.
type RunInput struct {
	Method           domain.OptimizationMethod
	HorizonDays      int
	Recommendations  []domain.OptimizationRecommendation
	InventoryMetrics map[domain.BloodType]domain.BloodInventoryMetrics
	SupplyMetrics    map[domain.BloodType]domain.BloodSupplyMetrics
	FallbackTypes    []domain.BloodType
	SolverFellBack   bool
}

// Build computes the risk assessment and performance metrics and bundles the
// final report. The report is immutable once returned.
func (a *Aggregator) Build(in RunInput, now time.Time) domain.OptimizationReport {
	totalCost := 0.0
	emergencies := 0
	confidenceSum := 0.0
	for _, rec := range in.Recommendations {
		totalCost += rec.EstimatedCost
		confidenceSum += rec.ConfidenceScore
		if rec.RecommendationType == domain.RecommendEmergencyOrder {
			emergencies++
		}
	}

	risk := a.assessRisk(in, emergencies, totalCost)
	perf := a.performance(in, emergencies, totalCost, confidenceSum)

	return domain.OptimizationReport{
		ID:                 uuid.NewString(),
		Method:             in.Method,
		HorizonDays:        in.HorizonDays,
		GeneratedAt:        now,
		Recommendations:    in.Recommendations,
		InventoryMetrics:   in.InventoryMetrics,
		SupplyMetrics:      in.SupplyMetrics,
		RiskAssessment:     risk,
		PerformanceMetrics: perf,
		TotalEstimatedCost: totalCost,
		Budget:             a.budget,
		FallbackTypes:      in.FallbackTypes,
		SolverFellBack:     in.SolverFellBack,
	}
}

func (a *Aggregator) assessRisk(in RunInput, emergencies int, totalCost float64) domain.RiskAssessment {
	assessment := domain.RiskAssessment{}

	if total := len(in.Recommendations); total > 0 {
		assessment.SupplyRisk = float64(emergencies) / float64(total)
	}
	if a.budget > 0 {
		assessment.CostRisk = totalCost / a.budget
	}
	if len(in.InventoryMetrics) > 0 {
		sum := 0.0
		for _, m := range in.InventoryMetrics {
			sum += m.WastageRate
		}
		assessment.WastageRisk = sum / float64(len(in.InventoryMetrics))
	}

	assessment.OverallScore = supplyRiskWeight*assessment.SupplyRisk +
		costRiskWeight*assessment.CostRisk +
		wastageRiskWeight*assessment.WastageRisk

	switch {
	case assessment.OverallScore > highRiskAbove:
		assessment.RiskLevel = domain.RiskHigh
	case assessment.OverallScore > mediumRiskAbove:
		assessment.RiskLevel = domain.RiskMedium
	default:
		assessment.RiskLevel = domain.RiskLow
	}

	return assessment
}

func (a *Aggregator) performance(in RunInput, emergencies int, totalCost, confidenceSum float64) domain.PerformanceMetrics {
	perf := domain.PerformanceMetrics{}

	total := len(in.Recommendations)
	if total == 0 {
		return perf
	}

	emergencyRatio := float64(emergencies) / float64(total)
	perf.ServiceLevel = 1 - emergencyRatio

	if a.budget > 0 {
		perf.BudgetUtilization = totalCost / a.budget
	}
	utilization := perf.BudgetUtilization
	if utilization < minBudgetUtilization {
		utilization = minBudgetUtilization
	}
	perf.CostEfficiency = perf.ServiceLevel / utilization

	perf.AverageConfidence = confidenceSum / float64(total)

	perf.OptimizationScore = serviceLevelWeight*perf.ServiceLevel +
		costEfficiencyWeight*perf.CostEfficiency +
		confidenceWeight*perf.AverageConfidence

	return perf
}

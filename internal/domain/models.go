package domain

import (
	"encoding/json"
	"math"
	"time"
)

// DonorClinicalRecord is one donor's eligibility snapshot within a batch.
// Records are immutable per batch; they are produced by the ingestion collaborator.
type DonorClinicalRecord struct {
	DonorID          string            `json:"donor_id" db:"donor_id"`
	BloodType        BloodType         `json:"blood_type" db:"blood_type"`
	Eligibility      EligibilityStatus `json:"eligibility" db:"eligibility"`
	HasMedicalRecord bool              `json:"has_medical_record" db:"has_medical_record"`
	ScreeningResult  string            `json:"screening_result,omitempty" db:"screening_result"`
	UpdatedAt        time.Time         `json:"updated_at" db:"updated_at"`
}

// DemandForecastPoint is one step of a demand forecast. Dates within a series
// increase strictly by one day; bounds when present satisfy lower <= predicted <= upper.
type DemandForecastPoint struct {
	Date            time.Time `json:"date"`
	PredictedDemand float64   `json:"predicted_demand"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	HasBounds       bool      `json:"has_bounds"`
}

// BloodSupplyMetrics summarizes a donor batch for one blood type. Recomputed
// fresh on every analysis, never mutated in place.
type BloodSupplyMetrics struct {
	BloodType             BloodType                 `json:"blood_type"`
	TotalDonors           int                       `json:"total_donors"`
	EligibleDonors        int                       `json:"eligible_donors"`
	EligibilityRate       float64                   `json:"eligibility_rate"`
	StatusBreakdown       map[EligibilityStatus]int `json:"status_breakdown"`
	DataCompletenessRate  float64                   `json:"data_completeness_rate"`
	PredictedDailySupply  float64                   `json:"predicted_daily_supply"`
	PredictedWeeklySupply float64                   `json:"predicted_weekly_supply"`
	SeasonalFactor        float64                   `json:"seasonal_factor"`
	RiskFactors           []string                  `json:"risk_factors"`
	RiskLevel             RiskLevel                 `json:"risk_level"`
	Recommendation        string                    `json:"recommendation"`
}

// BloodInventoryMetrics is the per-type inventory picture used by the optimizer.
// Invariants: ReorderPoint >= SafetyStock >= 0 and EOQ >= 1.
type BloodInventoryMetrics struct {
	BloodType       BloodType `json:"blood_type"`
	CurrentStock    int       `json:"current_stock"`
	SafetyStock     int       `json:"safety_stock"`
	ReorderPoint    int       `json:"reorder_point"`
	EOQ             int       `json:"eoq"`
	DailyDemand     float64   `json:"daily_demand"`
	DaysOfSupply    float64   `json:"days_of_supply"`
	WastageRate     float64   `json:"wastage_rate"`
	UnitCost        float64   `json:"unit_cost"`
	ShelfLifeDays   int       `json:"shelf_life_days"`
	StorageCapacity int       `json:"storage_capacity"`
}

// MarshalJSON encodes an infinite or NaN days-of-supply as null. Days of
// supply is +Inf when daily demand is zero, and encoding/json rejects +Inf.
func (m BloodInventoryMetrics) MarshalJSON() ([]byte, error) {
	type plain BloodInventoryMetrics
	wire := struct {
		plain
		DaysOfSupply *float64 `json:"days_of_supply"`
	}{plain: plain(m)}
	if !math.IsInf(m.DaysOfSupply, 0) && !math.IsNaN(m.DaysOfSupply) {
		wire.DaysOfSupply = &m.DaysOfSupply
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores a null days-of-supply to +Inf.
func (m *BloodInventoryMetrics) UnmarshalJSON(data []byte) error {
	type plain BloodInventoryMetrics
	wire := struct {
		*plain
		DaysOfSupply *float64 `json:"days_of_supply"`
	}{plain: (*plain)(m)}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.DaysOfSupply == nil {
		m.DaysOfSupply = math.Inf(1)
	} else {
		m.DaysOfSupply = *wire.DaysOfSupply
	}
	return nil
}

// OptimizationRecommendation is one ordering decision for one blood type.
// A run produces a new immutable set; recommendations are never updated.
type OptimizationRecommendation struct {
	BloodType            BloodType          `json:"blood_type"`
	StockLevel           StockLevel         `json:"stock_level"`
	RecommendationType   RecommendationType `json:"recommendation_type"`
	RecommendedQuantity  int                `json:"recommended_quantity"`
	Priority             Priority           `json:"priority"`
	EstimatedCost        float64            `json:"estimated_cost"`
	ExpectedDeliveryDate time.Time          `json:"expected_delivery_date"`
	Reasoning            string             `json:"reasoning"`
	ConfidenceScore      float64            `json:"confidence_score"`
}

// RiskAssessment is the run-wide risk rollup.
type RiskAssessment struct {
	SupplyRisk   float64   `json:"supply_risk"`
	CostRisk     float64   `json:"cost_risk"`
	WastageRisk  float64   `json:"wastage_risk"`
	OverallScore float64   `json:"overall_score"`
	RiskLevel    RiskLevel `json:"risk_level"`
}

// PerformanceMetrics grades the quality of an optimization run.
type PerformanceMetrics struct {
	ServiceLevel      float64 `json:"service_level"`
	CostEfficiency    float64 `json:"cost_efficiency"`
	BudgetUtilization float64 `json:"budget_utilization"`
	AverageConfidence float64 `json:"average_confidence"`
	OptimizationScore float64 `json:"optimization_score"`
}

// OptimizationReport is the aggregate result of one optimize_inventory run.
// Created once per run, persisted, then read-only.
type OptimizationReport struct {
	ID                 string                                    `json:"id" db:"id"`
	Method             OptimizationMethod                        `json:"optimization_method" db:"method"`
	HorizonDays        int                                       `json:"forecast_horizon_days" db:"horizon_days"`
	GeneratedAt        time.Time                                 `json:"generated_at" db:"generated_at"`
	Recommendations    []OptimizationRecommendation              `json:"recommendations"`
	InventoryMetrics   map[BloodType]BloodInventoryMetrics       `json:"inventory_metrics"`
	SupplyMetrics      map[BloodType]BloodSupplyMetrics          `json:"supply_metrics,omitempty"`
	RiskAssessment     RiskAssessment                            `json:"risk_assessment"`
	PerformanceMetrics PerformanceMetrics                        `json:"performance_metrics"`
	TotalEstimatedCost float64                                   `json:"total_estimated_cost"`
	Budget             float64                                   `json:"budget"`
	FallbackTypes      []BloodType                               `json:"fallback_types,omitempty"`
	SolverFellBack     bool                                      `json:"solver_fell_back"`
}

// InventorySnapshot is a point-in-time view of stock on hand, read from the
// inventory collaborator at the start of a run.
type InventorySnapshot struct {
	TakenAt time.Time                        `json:"taken_at"`
	Stock   map[BloodType]InventoryStockItem `json:"stock"`
}

// InventoryStockItem is current stock and freshness for one blood type.
type InventoryStockItem struct {
	BloodType         BloodType `json:"blood_type" db:"blood_type"`
	Units             int       `json:"units" db:"units"`
	AvgRemainingShelf float64   `json:"avg_remaining_shelf_days" db:"avg_remaining_shelf_days"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DemandEstimate is the aggregate demand over a horizon for one blood type, as
// returned by the forecasting collaborator or the static fallback table.
type DemandEstimate struct {
	BloodType       BloodType `json:"blood_type"`
	HorizonDays     int       `json:"horizon_days"`
	PredictedDemand float64   `json:"predicted_demand"`
	ConfidenceLower float64   `json:"confidence_lower"`
	ConfidenceUpper float64   `json:"confidence_upper"`
	ModelAccuracy   float64   `json:"accuracy"`
	FallbackUsed    bool      `json:"fallback_used"`
}

// DemandObservation is one day of historical demand for one blood type, used to
// fit the forecaster registry.
type DemandObservation struct {
	BloodType BloodType `json:"blood_type" db:"blood_type"`
	Date      time.Time `json:"date" db:"date"`
	Units     float64   `json:"units" db:"units"`
}

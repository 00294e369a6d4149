package domain

import "strings"

// EligibilityStatus is the donor screening outcome carried on every clinical record.
type EligibilityStatus string

const (
	EligibilityEligible            EligibilityStatus = "eligible"
	EligibilityIneligible          EligibilityStatus = "ineligible"
	EligibilityTemporarilyDeferred EligibilityStatus = "temporarily_deferred"
	EligibilityPermanentlyDeferred EligibilityStatus = "permanently_deferred"
	EligibilityPendingReview       EligibilityStatus = "pending_review"
)

var eligibilityLabels = map[EligibilityStatus]string{
	EligibilityEligible:            "Eligible",
	EligibilityIneligible:          "Ineligible",
	EligibilityTemporarilyDeferred: "Temporarily Deferred",
	EligibilityPermanentlyDeferred: "Permanently Deferred",
	EligibilityPendingReview:       "Pending Review",
}

var eligibilityCodes = map[string]EligibilityStatus{
	"eligible":             EligibilityEligible,
	"ineligible":           EligibilityIneligible,
	"temporarily_deferred": EligibilityTemporarilyDeferred,
	"permanently_deferred": EligibilityPermanentlyDeferred,
	"pending_review":       EligibilityPendingReview,
}

// AllEligibilityStatuses lists every status in a stable order.
var AllEligibilityStatuses = []EligibilityStatus{
	EligibilityEligible,
	EligibilityIneligible,
	EligibilityTemporarilyDeferred,
	EligibilityPermanentlyDeferred,
	EligibilityPendingReview,
}

// EligibilityLabel returns a human-readable label for a status.
func EligibilityLabel(status EligibilityStatus) string {
	if label, ok := eligibilityLabels[status]; ok {
		return label
	}

	return "Unknown"
}

// ParseEligibilityStatus returns the status for a given label (case-insensitive).
func ParseEligibilityStatus(label string) (EligibilityStatus, bool) {
	status, ok := eligibilityCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// RiskLevel grades a per-type or run-wide risk assessment.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// StockLevel classifies current stock against the computed thresholds.
// Ordering is monotonic in current stock.
type StockLevel string

const (
	StockCritical StockLevel = "critical"
	StockLow      StockLevel = "low"
	StockAdequate StockLevel = "adequate"
	StockOptimal  StockLevel = "optimal"
	StockExcess   StockLevel = "excess"
)

// RecommendationType is the ordering action attached to a recommendation.
type RecommendationType string

const (
	RecommendEmergencyOrder RecommendationType = "emergency_order"
	RecommendRoutineOrder   RecommendationType = "routine_order"
	RecommendHold           RecommendationType = "hold"
	RecommendReduce         RecommendationType = "reduce"
	RecommendRedistribute   RecommendationType = "redistribute"
)

// Priority orders recommendations for fulfilment.
type Priority string

const (
	PriorityEmergency Priority = "emergency"
	PriorityHigh      Priority = "high"
	PriorityMedium    Priority = "medium"
	PriorityLow       Priority = "low"
)

// OptimizationMethod selects the ordering strategy for a run.
type OptimizationMethod string

const (
	MethodConstrained OptimizationMethod = "constrained"
	MethodHeuristic   OptimizationMethod = "heuristic"
	MethodHybrid      OptimizationMethod = "hybrid"
)

// ParseOptimizationMethod returns the method for a raw value (case-insensitive).
func ParseOptimizationMethod(raw string) (OptimizationMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "constrained", "":
		return MethodConstrained, true
	case "heuristic":
		return MethodHeuristic, true
	case "hybrid":
		return MethodHybrid, true
	}

	return "", false
}

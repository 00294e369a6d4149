// Package clinical converts donor eligibility batches into per-blood-type
// supply metrics and risk flags.
package clinical

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// Risk factor tags attached to supply metrics.
const (
	RiskLowEligibilityRate    = "low eligibility rate"
	RiskSmallDonorPool        = "small donor pool"
	RiskHighTemporaryDeferral = "high temporary deferral rate"
)

// Thresholds for risk factor tagging.
const (
	lowEligibilityThreshold    = 0.70
	smallPoolThreshold         = 50
	temporaryDeferralThreshold = 0.20
)

// Risk level scoring. Each dimension contributes a severe or mild point value;
// the summed score maps onto LOW/MEDIUM/HIGH.
const (
	scoreSevere = 3
	scoreMild   = 1

	eligibilitySevereBelow = 0.60
	eligibilityMildBelow   = 0.80
	poolSevereBelow        = 30
	poolMildBelow          = 100
	coverageSevereBelow    = 0.8
	coverageMildBelow      = 1.2

	highRiskScore   = 6
	mediumRiskScore = 3
)

// GroupStats is the per-type donor breakdown produced by Analyze.
type GroupStats struct {
	BloodType            domain.BloodType                 `json:"blood_type"`
	TotalDonors          int                              `json:"total_donors"`
	StatusBreakdown      map[domain.EligibilityStatus]int `json:"status_breakdown"`
	DataCompletenessRate float64                          `json:"data_completeness_rate"`
}

// SupplyPredictor derives supply metrics from donor clinical batches. It holds
// only configuration; every prediction is computed fresh from its inputs.
type SupplyPredictor struct {
	donationIntervalDays int
	seasonalFactors      map[string]float64
	typicalDailyDemand   map[string]float64
}

func NewSupplyPredictor(cfg config.ClinicalConfig) *SupplyPredictor {
	return &SupplyPredictor{
		donationIntervalDays: cfg.DonationIntervalDays,
		seasonalFactors:      cfg.SeasonalFactors,
		typicalDailyDemand:   cfg.TypicalDailyDemand,
	}
}

// Analyze groups a donor batch by blood type and computes counts, the
// eligibility-status histogram and the data-completeness rate.
func (p *SupplyPredictor) Analyze(batch []domain.DonorClinicalRecord) map[domain.BloodType]GroupStats {
	stats := make(map[domain.BloodType]GroupStats)

	for _, record := range batch {
		if !record.BloodType.Valid() {
			continue
		}

		group, ok := stats[record.BloodType]
		if !ok {
			group = GroupStats{
				BloodType:       record.BloodType,
				StatusBreakdown: make(map[domain.EligibilityStatus]int),
			}
		}

		group.TotalDonors++
		group.StatusBreakdown[record.Eligibility]++
		stats[record.BloodType] = group
	}

	complete := make(map[domain.BloodType]int)
	for _, record := range batch {
		if record.HasMedicalRecord && record.ScreeningResult != "" {
			complete[record.BloodType]++
		}
	}
	for bt, group := range stats {
		group.DataCompletenessRate = float64(complete[bt]) / float64(group.TotalDonors)
		stats[bt] = group
	}

	return stats
}

// PredictSupply computes supply metrics for every blood type present in the
// batch. The calendar month of now selects the seasonal factor, so two calls
// over an identical batch at the same instant are bit-identical.
func (p *SupplyPredictor) PredictSupply(batch []domain.DonorClinicalRecord, now time.Time) map[domain.BloodType]domain.BloodSupplyMetrics {
	stats := p.Analyze(batch)
	season := seasonOf(now.Month())
	factor, ok := p.seasonalFactors[season]
	if !ok {
		factor = 1.0
	}

	result := make(map[domain.BloodType]domain.BloodSupplyMetrics, len(stats))
	for bt, group := range stats {
		eligible := group.StatusBreakdown[domain.EligibilityEligible]
		eligibilityRate := float64(eligible) / float64(group.TotalDonors)

		dailySupply := float64(group.TotalDonors) * eligibilityRate /
			float64(p.donationIntervalDays) * factor

		m := domain.BloodSupplyMetrics{
			BloodType:             bt,
			TotalDonors:           group.TotalDonors,
			EligibleDonors:        eligible,
			EligibilityRate:       eligibilityRate,
			StatusBreakdown:       group.StatusBreakdown,
			DataCompletenessRate:  group.DataCompletenessRate,
			PredictedDailySupply:  dailySupply,
			PredictedWeeklySupply: dailySupply * 7,
			SeasonalFactor:        factor,
			RiskFactors:           p.riskFactors(group, eligibilityRate),
		}
		m.RiskLevel = p.riskLevel(m)
		m.Recommendation = recommendationText(m)

		result[bt] = m
	}

	return result
}

func (p *SupplyPredictor) riskFactors(group GroupStats, eligibilityRate float64) []string {
	factors := make([]string, 0, 3)

	if eligibilityRate < lowEligibilityThreshold {
		factors = append(factors, RiskLowEligibilityRate)
	}
	if group.TotalDonors < smallPoolThreshold {
		factors = append(factors, RiskSmallDonorPool)
	}
	deferred := group.StatusBreakdown[domain.EligibilityTemporarilyDeferred]
	if float64(deferred)/float64(group.TotalDonors) > temporaryDeferralThreshold {
		factors = append(factors, RiskHighTemporaryDeferral)
	}

	return factors
}

// riskLevel scores three dimensions (eligibility, pool size, supply coverage)
// and maps the sum onto a level.
func (p *SupplyPredictor) riskLevel(m domain.BloodSupplyMetrics) domain.RiskLevel {
	score := 0

	switch {
	case m.EligibilityRate < eligibilitySevereBelow:
		score += scoreSevere
	case m.EligibilityRate < eligibilityMildBelow:
		score += scoreMild
	}

	switch {
	case m.TotalDonors < poolSevereBelow:
		score += scoreSevere
	case m.TotalDonors < poolMildBelow:
		score += scoreMild
	}

	typical := p.typicalDailyDemand[m.BloodType.String()]
	if typical > 0 {
		coverage := m.PredictedDailySupply / typical
		switch {
		case coverage < coverageSevereBelow:
			score += scoreSevere
		case coverage < coverageMildBelow:
			score += scoreMild
		}
	}

	switch {
	case score >= highRiskScore:
		return domain.RiskHigh
	case score >= mediumRiskScore:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// recommendationText is deterministic over the risk level and fired factors.
func recommendationText(m domain.BloodSupplyMetrics) string {
	factors := append([]string(nil), m.RiskFactors...)
	sort.Strings(factors)

	switch m.RiskLevel {
	case domain.RiskHigh:
		if len(factors) > 0 {
			return fmt.Sprintf("Urgent donor recruitment needed for %s: %s.",
				m.BloodType, strings.Join(factors, "; "))
		}
		return fmt.Sprintf("Urgent donor recruitment needed for %s: predicted supply below typical demand.", m.BloodType)
	case domain.RiskMedium:
		if len(factors) > 0 {
			return fmt.Sprintf("Monitor %s supply closely: %s.",
				m.BloodType, strings.Join(factors, "; "))
		}
		return fmt.Sprintf("Monitor %s supply closely and review donor outreach.", m.BloodType)
	default:
		return fmt.Sprintf("Supply outlook for %s is stable.", m.BloodType)
	}
}

func seasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "fall"
	}
}

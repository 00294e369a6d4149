package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

const (
	defaultAlpha = 0.3
	defaultBeta  = 0.1

	// minSeriesLength is the shortest demand history worth fitting.
	minSeriesLength = 14
)

// holtModel is a Holt linear-trend exponential smoothing model fitted over a
// daily demand series. All fields are set at fit time and never mutated.
type holtModel struct {
	bloodType   domain.BloodType
	level       float64
	trend       float64
	residualStd float64
	mae         float64
	rmse        float64
	seriesLen   int
	trainStart  time.Time
	trainEnd    time.Time
	fittedAt    time.Time
}

// FitModel fits a demand model for one blood type from its daily history.
// Observations are sorted by date before fitting; gaps are tolerated but the
// series must hold at least two weeks of data.
func FitModel(bloodType domain.BloodType, history []domain.DemandObservation) (Model, error) {
	if len(history) < minSeriesLength {
		return nil, fmt.Errorf("%w: %s has %d observations, need %d",
			ErrInsufficientHistory, bloodType, len(history), minSeriesLength)
	}

	series := make([]domain.DemandObservation, len(history))
	copy(series, history)
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	level := series[0].Units
	trend := series[1].Units - series[0].Units

	var sumAbs, sumSq float64
	n := 0
	for i := 1; i < len(series); i++ {
		predicted := level + trend
		residual := series[i].Units - predicted
		sumAbs += math.Abs(residual)
		sumSq += residual * residual
		n++

		prevLevel := level
		level = defaultAlpha*series[i].Units + (1-defaultAlpha)*(level+trend)
		trend = defaultBeta*(level-prevLevel) + (1-defaultBeta)*trend
	}

	return &holtModel{
		bloodType:   bloodType,
		level:       level,
		trend:       trend,
		residualStd: math.Sqrt(sumSq / float64(n)),
		mae:         sumAbs / float64(n),
		rmse:        math.Sqrt(sumSq / float64(n)),
		seriesLen:   len(series),
		trainStart:  series[0].Date,
		trainEnd:    series[len(series)-1].Date,
		fittedAt:    time.Now().UTC(),
	}, nil
}

func (m *holtModel) Forecast(horizonDays int, confidenceLevel float64) ([]domain.DemandForecastPoint, error) {
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonDays)
	}
	if confidenceLevel < MinConfidence || confidenceLevel > MaxConfidence {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidConfidence, confidenceLevel)
	}

	// Two-sided z for the requested confidence level.
	z := math.Sqrt2 * math.Erfinv(confidenceLevel)

	points := make([]domain.DemandForecastPoint, 0, horizonDays)
	for step := 1; step <= horizonDays; step++ {
		predicted := m.level + m.trend*float64(step)
		if predicted < 0 {
			predicted = 0
		}

		// Interval widens with the forecast step.
		width := z * m.residualStd * math.Sqrt(float64(step))
		lower := predicted - width
		if lower < 0 {
			lower = 0
		}

		points = append(points, domain.DemandForecastPoint{
			Date:            m.trainEnd.AddDate(0, 0, step),
			PredictedDemand: predicted,
			LowerBound:      lower,
			UpperBound:      predicted + width,
			HasBounds:       true,
		})
	}

	return points, nil
}

func (m *holtModel) Diagnostics() ModelDiagnostics {
	return ModelDiagnostics{
		BloodType:     m.bloodType,
		SeriesLength:  m.seriesLen,
		TrainingStart: m.trainStart,
		TrainingEnd:   m.trainEnd,
		FittedAt:      m.fittedAt,
		MAE:           m.mae,
		RMSE:          m.rmse,
		Level:         m.level,
		Trend:         m.trend,
	}
}

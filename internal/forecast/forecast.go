// Package forecast holds the fitted per-blood-type demand models and the
// registry that owns them. Models are fitted once (at startup or on explicit
// reload) and are read-only afterwards, so concurrent forecasting needs no
// locking.
package forecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

const (
	MinHorizonDays = 1
	MaxHorizonDays = 365
	MinConfidence  = 0.5
	MaxConfidence  = 0.99
)

var (
	// ErrInvalidBloodType rejects blood types outside the (A|B|AB|O)[+-] pattern.
	ErrInvalidBloodType = errors.New("invalid blood type")
	// ErrInvalidHorizon rejects horizons outside [1, 365] days.
	ErrInvalidHorizon = errors.New("horizon_days must be between 1 and 365")
	// ErrInvalidConfidence rejects confidence levels outside [0.5, 0.99].
	ErrInvalidConfidence = errors.New("confidence_level must be between 0.5 and 0.99")
	// ErrModelUnavailable means no fitted model exists for the requested type.
	ErrModelUnavailable = errors.New("no fitted model for blood type")
	// ErrInsufficientHistory means a demand series is too short to fit a model.
	ErrInsufficientHistory = errors.New("insufficient demand history")
)

// ModelDiagnostics exposes fit-quality indicators for observability.
type ModelDiagnostics struct {
	BloodType     domain.BloodType `json:"blood_type"`
	SeriesLength  int              `json:"series_length"`
	TrainingStart time.Time        `json:"training_start"`
	TrainingEnd   time.Time        `json:"training_end"`
	FittedAt      time.Time        `json:"fitted_at"`
	MAE           float64          `json:"mae"`
	RMSE          float64          `json:"rmse"`
	Level         float64          `json:"level"`
	Trend         float64          `json:"trend"`
}

// Model is a fitted step-ahead demand predictor. Implementations must be
// safe for concurrent use after fitting; the underlying statistical method is
// an implementation detail.
type Model interface {
	// Forecast produces horizonDays points with consecutive daily dates
	// starting the day after the training window, with confidence bounds at
	// the given level.
	Forecast(horizonDays int, confidenceLevel float64) ([]domain.DemandForecastPoint, error)
	// Diagnostics reports the fit quality and training window.
	Diagnostics() ModelDiagnostics
}

// ValidateRequest fails fast on bad forecast parameters. Callers should invoke
// it before forecasting; Registry.Forecast applies it as well.
func ValidateRequest(bloodType string, horizonDays int, confidenceLevel float64) error {
	if _, err := domain.ParseBloodType(bloodType); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidBloodType, bloodType)
	}
	if horizonDays < MinHorizonDays || horizonDays > MaxHorizonDays {
		return fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonDays)
	}
	if confidenceLevel < MinConfidence || confidenceLevel > MaxConfidence {
		return fmt.Errorf("%w: got %g", ErrInvalidConfidence, confidenceLevel)
	}
	return nil
}

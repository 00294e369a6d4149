package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/IrrisMag/HealthTech-sub000/internal/clinical"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/inventory"
	"github.com/IrrisMag/HealthTech-sub000/internal/metrics"
	"github.com/IrrisMag/HealthTech-sub000/internal/optimizer"
	"github.com/IrrisMag/HealthTech-sub000/internal/report"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
	"github.com/IrrisMag/HealthTech-sub000/internal/storage"
)

// DemandEstimator is the read side of the demand forecasting collaborator.
type DemandEstimator interface {
	Estimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) domain.DemandEstimate
}

// OptimizationService runs the full supply-demand optimization pipeline. Each
// run is a self-contained computation over a point-in-time snapshot; the
// service itself holds no mutable run state.
type OptimizationService struct {
	donorRepo  repository.DonorRepository
	invRepo    repository.InventoryRepository
	reportRepo repository.ReportRepository
	estimator  DemandEstimator
	predictor  *clinical.SupplyPredictor
	calculator *inventory.MetricsCalculator
	optimizer  *optimizer.Optimizer
	aggregator *report.Aggregator
	archive    storage.ReportArchive

	// solverSem keeps CPU-bound solves off the request-handling path's
	// critical capacity: at most GOMAXPROCS solves run at once.
	solverSem *semaphore.Weighted
}

func NewOptimizationService(
	donorRepo repository.DonorRepository,
	invRepo repository.InventoryRepository,
	reportRepo repository.ReportRepository,
	estimator DemandEstimator,
	predictor *clinical.SupplyPredictor,
	calculator *inventory.MetricsCalculator,
	opt *optimizer.Optimizer,
	aggregator *report.Aggregator,
	archive storage.ReportArchive,
) *OptimizationService {
	if archive == nil {
		archive = storage.NewNoopReportArchive()
	}
	return &OptimizationService{
		donorRepo:  donorRepo,
		invRepo:    invRepo,
		reportRepo: reportRepo,
		estimator:  estimator,
		predictor:  predictor,
		calculator: calculator,
		optimizer:  opt,
		aggregator: aggregator,
		archive:    archive,
		solverSem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// OptimizeInventory executes one optimization run and returns the persisted
// report. A forecasting failure for one blood type never aborts the run; that
// type proceeds on fallback data and is flagged on the report.
func (s *OptimizationService) OptimizeInventory(ctx context.Context, method domain.OptimizationMethod, horizonDays int) (domain.OptimizationReport, error) {
	started := time.Now()

	if horizonDays < forecast.MinHorizonDays || horizonDays > forecast.MaxHorizonDays {
		return domain.OptimizationReport{}, fmt.Errorf("%w: got %d", forecast.ErrInvalidHorizon, horizonDays)
	}

	snapshot, err := s.invRepo.GetSnapshot(ctx)
	if err != nil {
		return domain.OptimizationReport{}, fmt.Errorf("failed to load inventory snapshot: %w", err)
	}

	batch, err := s.donorRepo.GetDonorBatch(ctx)
	if err != nil {
		return domain.OptimizationReport{}, fmt.Errorf("failed to load donor batch: %w", err)
	}

	estimates, fallbackTypes := s.gatherEstimates(ctx, snapshot, horizonDays)

	now := time.Now().UTC()
	supplyMetrics := s.predictor.PredictSupply(batch, now)
	invMetrics := s.calculator.CalculateAll(snapshot, estimates)

	inputs := make(map[domain.BloodType]optimizer.Input, len(invMetrics))
	for bt, m := range invMetrics {
		inputs[bt] = optimizer.Input{Metrics: m, Estimate: estimates[bt]}
	}

	// The solve is CPU-bound and synchronous; bound its concurrency so it
	// cannot starve request handling.
	if err := s.solverSem.Acquire(ctx, 1); err != nil {
		return domain.OptimizationReport{}, fmt.Errorf("optimization canceled: %w", err)
	}
	result := s.optimizer.Optimize(method, inputs, now)
	s.solverSem.Release(1)

	rep := s.aggregator.Build(report.RunInput{
		Method:           result.MethodUsed,
		HorizonDays:      horizonDays,
		Recommendations:  result.Recommendations,
		InventoryMetrics: invMetrics,
		SupplyMetrics:    supplyMetrics,
		FallbackTypes:    fallbackTypes,
		SolverFellBack:   result.SolverFellBack,
	}, now)

	if err := s.reportRepo.AppendReport(ctx, rep); err != nil {
		// The computed report is still returned to the caller.
		log.Error().Err(err).Str("report_id", rep.ID).Msg("failed to persist optimization report")
		metrics.ReportPersistFailures.Inc()
	}

	if err := s.archive.ArchiveReport(ctx, rep); err != nil {
		log.Warn().Err(err).Str("report_id", rep.ID).Msg("failed to archive optimization report")
	}

	metrics.OptimizationRuns.WithLabelValues(string(result.MethodUsed)).Inc()
	metrics.OptimizationDuration.Observe(time.Since(started).Seconds())

	return rep, nil
}

// gatherEstimates fans out per-type demand calls. Each call is bounded by the
// client's timeout and downgrades to the static fallback on failure, so the
// group never returns an error.
func (s *OptimizationService) gatherEstimates(ctx context.Context, snapshot domain.InventorySnapshot, horizonDays int) (map[domain.BloodType]domain.DemandEstimate, []domain.BloodType) {
	types := make([]domain.BloodType, 0, len(snapshot.Stock))
	for bt := range snapshot.Stock {
		types = append(types, bt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	estimates := make([]domain.DemandEstimate, len(types))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, bt := range types {
		g.Go(func() error {
			estimates[i] = s.estimator.Estimate(gctx, bt, horizonDays)
			return nil
		})
	}
	_ = g.Wait()

	result := make(map[domain.BloodType]domain.DemandEstimate, len(types))
	var fallbackTypes []domain.BloodType
	for i, bt := range types {
		result[bt] = estimates[i]
		if estimates[i].FallbackUsed {
			fallbackTypes = append(fallbackTypes, bt)
		}
	}
	return result, fallbackTypes
}

// GetReport returns one persisted report.
func (s *OptimizationService) GetReport(ctx context.Context, id string) (domain.OptimizationReport, error) {
	return s.reportRepo.GetReport(ctx, id)
}

// ListReports returns the most recent persisted reports.
func (s *OptimizationService) ListReports(ctx context.Context, limit int) ([]domain.OptimizationReport, error) {
	return s.reportRepo.ListReports(ctx, limit)
}

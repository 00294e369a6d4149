// Package memory provides in-memory repository implementations, used by tests
// and as a no-database development mode.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
)

// DonorRepository holds a donor batch in memory.
type DonorRepository struct {
	mu      sync.RWMutex
	records []domain.DonorClinicalRecord
}

func NewDonorRepository() *DonorRepository {
	return &DonorRepository{}
}

// Verify interface compliance
var _ repository.DonorRepository = (*DonorRepository)(nil)

// LoadBatch replaces the stored donor batch.
func (r *DonorRepository) LoadBatch(records []domain.DonorClinicalRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append([]domain.DonorClinicalRecord(nil), records...)
}

func (r *DonorRepository) GetDonorBatch(ctx context.Context) ([]domain.DonorClinicalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.DonorClinicalRecord(nil), r.records...), nil
}

func (r *DonorRepository) GetStatusCounts(ctx context.Context) (map[domain.BloodType]map[domain.EligibilityStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.BloodType]map[domain.EligibilityStatus]int)
	for _, record := range r.records {
		if counts[record.BloodType] == nil {
			counts[record.BloodType] = make(map[domain.EligibilityStatus]int)
		}
		counts[record.BloodType][record.Eligibility]++
	}
	return counts, nil
}

// InventoryRepository holds a stock snapshot in memory.
type InventoryRepository struct {
	mu    sync.RWMutex
	stock map[domain.BloodType]domain.InventoryStockItem
}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{stock: make(map[domain.BloodType]domain.InventoryStockItem)}
}

var _ repository.InventoryRepository = (*InventoryRepository)(nil)

// SetStock replaces the stored stock item for one blood type.
func (r *InventoryRepository) SetStock(item domain.InventoryStockItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stock[item.BloodType] = item
}

func (r *InventoryRepository) GetSnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := domain.InventorySnapshot{
		TakenAt: time.Now().UTC(),
		Stock:   make(map[domain.BloodType]domain.InventoryStockItem, len(r.stock)),
	}
	for bt, item := range r.stock {
		snapshot.Stock[bt] = item
	}
	return snapshot, nil
}

// DemandHistoryRepository holds daily demand series in memory.
type DemandHistoryRepository struct {
	mu      sync.RWMutex
	history map[domain.BloodType][]domain.DemandObservation
}

func NewDemandHistoryRepository() *DemandHistoryRepository {
	return &DemandHistoryRepository{history: make(map[domain.BloodType][]domain.DemandObservation)}
}

var _ repository.DemandHistoryRepository = (*DemandHistoryRepository)(nil)

// AddObservations appends observations to a blood type's series.
func (r *DemandHistoryRepository) AddObservations(observations ...domain.DemandObservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, obs := range observations {
		r.history[obs.BloodType] = append(r.history[obs.BloodType], obs)
	}
}

func (r *DemandHistoryRepository) GetHistory(ctx context.Context, days int) (map[domain.BloodType][]domain.DemandObservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := make(map[domain.BloodType][]domain.DemandObservation, len(r.history))
	for bt, series := range r.history {
		kept := make([]domain.DemandObservation, 0, len(series))
		for _, obs := range series {
			if !obs.Date.Before(cutoff) {
				kept = append(kept, obs)
			}
		}
		if len(kept) > 0 {
			sort.Slice(kept, func(i, j int) bool { return kept[i].Date.Before(kept[j].Date) })
			result[bt] = kept
		}
	}
	return result, nil
}

// ReportRepository appends reports in memory.
type ReportRepository struct {
	mu      sync.RWMutex
	reports []domain.OptimizationReport
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{}
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

func (r *ReportRepository) AppendReport(ctx context.Context, report domain.OptimizationReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return nil
}

func (r *ReportRepository) GetReport(ctx context.Context, id string) (domain.OptimizationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, report := range r.reports {
		if report.ID == id {
			return report, nil
		}
	}
	return domain.OptimizationReport{}, repository.ErrReportNotFound
}

func (r *ReportRepository) ListReports(ctx context.Context, limit int) ([]domain.OptimizationReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.reports) {
		limit = len(r.reports)
	}

	// Newest first
	result := make([]domain.OptimizationReport, 0, limit)
	for i := len(r.reports) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.reports[i])
	}
	return result, nil
}

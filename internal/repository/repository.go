// Package repository defines the read/write contracts against the donor,
// inventory and report stores. The engine only reads donor and inventory data;
// reports are append-only.
package repository

import (
	"context"
	"errors"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// ErrReportNotFound is returned when a report id has no stored report.
var ErrReportNotFound = errors.New("report not found")

// DonorRepository reads donor clinical batches from the ingestion store.
type DonorRepository interface {
	// GetDonorBatch returns the current donor clinical batch.
	GetDonorBatch(ctx context.Context) ([]domain.DonorClinicalRecord, error)
	// GetStatusCounts returns aggregated counts per (blood type, status).
	GetStatusCounts(ctx context.Context) (map[domain.BloodType]map[domain.EligibilityStatus]int, error)
}

// InventoryRepository reads the current stock snapshot.
type InventoryRepository interface {
	GetSnapshot(ctx context.Context) (domain.InventorySnapshot, error)
}

// DemandHistoryRepository reads daily demand series used to fit the forecast
// registry.
type DemandHistoryRepository interface {
	// GetHistory returns up to days of daily observations per blood type.
	GetHistory(ctx context.Context, days int) (map[domain.BloodType][]domain.DemandObservation, error)
}

// ReportRepository persists optimization reports. Reports are appended, never
// updated.
type ReportRepository interface {
	AppendReport(ctx context.Context, report domain.OptimizationReport) error
	GetReport(ctx context.Context, id string) (domain.OptimizationReport, error)
	ListReports(ctx context.Context, limit int) ([]domain.OptimizationReport, error)
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
)

type reportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *reportRepository {
	return &reportRepository{db: db}
}

// AppendReport stores the report as an immutable row. Reports are never
// updated after insertion.
func (r *reportRepository) AppendReport(ctx context.Context, report domain.OptimizationReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO optimization_reports (id, method, horizon_days, generated_at, payload)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			report.ID, report.Method, report.HorizonDays, report.GeneratedAt, payload,
		); err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}
		return nil
	})
}

func (r *reportRepository) GetReport(ctx context.Context, id string) (domain.OptimizationReport, error) {
	query := `SELECT payload FROM optimization_reports WHERE id = $1`

	var payload []byte
	err := r.db.QueryRowxContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OptimizationReport{}, repository.ErrReportNotFound
	}
	if err != nil {
		return domain.OptimizationReport{}, fmt.Errorf("failed to fetch report: %w", err)
	}

	var report domain.OptimizationReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return domain.OptimizationReport{}, fmt.Errorf("failed to decode report: %w", err)
	}

	return report, nil
}

func (r *reportRepository) ListReports(ctx context.Context, limit int) ([]domain.OptimizationReport, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT payload FROM optimization_reports
		ORDER BY generated_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]domain.OptimizationReport, 0, limit)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		var report domain.OptimizationReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

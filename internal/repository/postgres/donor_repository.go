package postgres

import (
	"context"
	"fmt"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

type donorRepository struct {
	db *DB
}

func NewDonorRepository(db *DB) *donorRepository {
	return &donorRepository{db: db}
}

func (r *donorRepository) GetDonorBatch(ctx context.Context) ([]domain.DonorClinicalRecord, error) {
	query := `
		SELECT donor_id, blood_type, eligibility, has_medical_record,
		       COALESCE(screening_result, '') AS screening_result, updated_at
		FROM donor_clinical_records
		ORDER BY donor_id
	`

	var records []domain.DonorClinicalRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to fetch donor batch: %w", err)
	}

	return records, nil
}

func (r *donorRepository) GetStatusCounts(ctx context.Context) (map[domain.BloodType]map[domain.EligibilityStatus]int, error) {
	query := `
		SELECT blood_type, eligibility, COUNT(*) AS count
		FROM donor_clinical_records
		GROUP BY blood_type, eligibility
	`

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.BloodType]map[domain.EligibilityStatus]int)
	for rows.Next() {
		var (
			bloodType   string
			eligibility string
			count       int
		)
		if err := rows.Scan(&bloodType, &eligibility, &count); err != nil {
			return nil, fmt.Errorf("failed to scan donor status count: %w", err)
		}

		bt := domain.BloodType(bloodType)
		if counts[bt] == nil {
			counts[bt] = make(map[domain.EligibilityStatus]int)
		}
		counts[bt][domain.EligibilityStatus(eligibility)] = count
	}

	return counts, rows.Err()
}

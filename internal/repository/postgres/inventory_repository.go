package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) *inventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetSnapshot(ctx context.Context) (domain.InventorySnapshot, error) {
	query := `
		SELECT blood_type, units, avg_remaining_shelf_days, updated_at
		FROM inventory_stock
	`

	var items []domain.InventoryStockItem
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("failed to fetch inventory snapshot: %w", err)
	}

	snapshot := domain.InventorySnapshot{
		TakenAt: time.Now().UTC(),
		Stock:   make(map[domain.BloodType]domain.InventoryStockItem, len(items)),
	}
	for _, item := range items {
		snapshot.Stock[item.BloodType] = item
	}

	return snapshot, nil
}

type demandHistoryRepository struct {
	db *DB
}

func NewDemandHistoryRepository(db *DB) *demandHistoryRepository {
	return &demandHistoryRepository{db: db}
}

func (r *demandHistoryRepository) GetHistory(ctx context.Context, days int) (map[domain.BloodType][]domain.DemandObservation, error) {
	query := `
		SELECT blood_type, date, units
		FROM demand_history
		WHERE date >= CURRENT_DATE - $1::int
		ORDER BY blood_type, date
	`

	var observations []domain.DemandObservation
	if err := r.db.SelectContext(ctx, &observations, query, days); err != nil {
		return nil, fmt.Errorf("failed to fetch demand history: %w", err)
	}

	history := make(map[domain.BloodType][]domain.DemandObservation)
	for _, obs := range observations {
		history[obs.BloodType] = append(history[obs.BloodType], obs)
	}

	return history, nil
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
)

func TestReportRepositoryAppendAndGet(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	for _, id := range []string{"first", "second", "third"} {
		err := repo.AppendReport(ctx, domain.OptimizationReport{ID: id, GeneratedAt: time.Now().UTC()})
		if err != nil {
			t.Fatalf("AppendReport(%s): %v", id, err)
		}
	}

	rep, err := repo.GetReport(ctx, "second")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if rep.ID != "second" {
		t.Errorf("ID = %q, want second", rep.ID)
	}

	if _, err := repo.GetReport(ctx, "missing"); !errors.Is(err, repository.ErrReportNotFound) {
		t.Errorf("error = %v, want ErrReportNotFound", err)
	}
}

func TestReportRepositoryListNewestFirst(t *testing.T) {
	repo := NewReportRepository()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.AppendReport(ctx, domain.OptimizationReport{ID: id}); err != nil {
			t.Fatal(err)
		}
	}

	reports, err := repo.ListReports(ctx, 2)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "c" || reports[1].ID != "b" {
		t.Errorf("order = [%s, %s], want [c, b]", reports[0].ID, reports[1].ID)
	}
}

func TestDemandHistoryWindow(t *testing.T) {
	repo := NewDemandHistoryRepository()
	now := time.Now().UTC()

	repo.AddObservations(
		domain.DemandObservation{BloodType: domain.OPositive, Date: now.AddDate(0, 0, -40), Units: 5},
		domain.DemandObservation{BloodType: domain.OPositive, Date: now.AddDate(0, 0, -10), Units: 8},
		domain.DemandObservation{BloodType: domain.OPositive, Date: now.AddDate(0, 0, -1), Units: 9},
	)

	history, err := repo.GetHistory(context.Background(), 30)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}

	series := history[domain.OPositive]
	if len(series) != 2 {
		t.Fatalf("expected 2 observations inside the window, got %d", len(series))
	}
	if !series[0].Date.Before(series[1].Date) {
		t.Error("observations not sorted by date")
	}
}

func TestInventorySnapshotIsolated(t *testing.T) {
	repo := NewInventoryRepository()
	repo.SetStock(domain.InventoryStockItem{BloodType: domain.OPositive, Units: 50, AvgRemainingShelf: 30})

	snap, err := repo.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}

	// Mutating the snapshot must not leak back into the repository.
	snap.Stock[domain.OPositive] = domain.InventoryStockItem{BloodType: domain.OPositive, Units: 0}

	again, err := repo.GetSnapshot(context.Background())
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if again.Stock[domain.OPositive].Units != 50 {
		t.Errorf("Units = %d, want 50", again.Stock[domain.OPositive].Units)
	}
}

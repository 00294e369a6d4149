// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IrrisMag/HealthTech-sub000/internal/api"
	"github.com/IrrisMag/HealthTech-sub000/internal/cache"
	"github.com/IrrisMag/HealthTech-sub000/internal/clinical"
	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/demand"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
	"github.com/IrrisMag/HealthTech-sub000/internal/forecast"
	"github.com/IrrisMag/HealthTech-sub000/internal/inventory"
	"github.com/IrrisMag/HealthTech-sub000/internal/optimizer"
	"github.com/IrrisMag/HealthTech-sub000/internal/report"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository/memory"
	"github.com/IrrisMag/HealthTech-sub000/internal/repository/postgres"
	"github.com/IrrisMag/HealthTech-sub000/internal/service"
	"github.com/IrrisMag/HealthTech-sub000/internal/storage"
	"github.com/IrrisMag/HealthTech-sub000/pkg/logger"
)

const historyFitWindowDays = 365

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	donorRepo, invRepo, historyRepo, reportRepo := buildRepositories(cfg)

	demandCache, err := cache.NewDemandCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("demand cache unavailable, continuing without it")
		demandCache = cache.NewNoopDemandCache()
	}
	demandClient := demand.NewClient(cfg.Forecasting, demandCache)

	archive, err := storage.NewReportArchive(cfg.Archive)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report archive unavailable, continuing without it")
		archive = storage.NewNoopReportArchive()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	provider, err := forecast.NewProvider(ctx, forecast.NewHistoryLoader(historyRepo, historyFitWindowDays))
	cancel()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load forecast registry")
	}

	refreshCtx, stopRefresher := context.WithCancel(context.Background())
	defer stopRefresher()
	refresher := forecast.NewRefresher(provider, time.Duration(cfg.Forecasting.ModelRefreshMinutes)*time.Minute)
	go refresher.Run(refreshCtx)

	optimizationService := service.NewOptimizationService(
		donorRepo,
		invRepo,
		reportRepo,
		demandClient,
		clinical.NewSupplyPredictor(cfg.Clinical),
		inventory.NewMetricsCalculator(cfg.Optimizer),
		optimizer.New(cfg.Optimizer),
		report.NewAggregator(cfg.Optimizer.Budget),
		archive,
	)
	forecastService := service.NewForecastService(provider, historyRepo)

	router := api.NewRouter(&api.Services{
		OptimizationService: optimizationService,
		ForecastService:     forecastService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// buildRepositories wires either the postgres stores or, when no database is
// configured, seeded in-memory stores for local development.
func buildRepositories(cfg *config.Config) (repository.DonorRepository, repository.InventoryRepository, repository.DemandHistoryRepository, repository.ReportRepository) {
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		return postgres.NewDonorRepository(db),
			postgres.NewInventoryRepository(db),
			postgres.NewDemandHistoryRepository(db),
			postgres.NewReportRepository(db)
	}

	logger.Log.Warn().Msg("database disabled, using seeded in-memory stores")
	donorRepo := memory.NewDonorRepository()
	invRepo := memory.NewInventoryRepository()
	historyRepo := memory.NewDemandHistoryRepository()
	seedDemoData(cfg, donorRepo, invRepo, historyRepo)
	return donorRepo, invRepo, historyRepo, memory.NewReportRepository()
}

// seedDemoData fills the in-memory stores with a deterministic synthetic
// dataset so the API is usable without a database.
func seedDemoData(cfg *config.Config, donorRepo *memory.DonorRepository, invRepo *memory.InventoryRepository, historyRepo *memory.DemandHistoryRepository) {
	now := time.Now().UTC()

	var records []domain.DonorClinicalRecord
	for _, bt := range domain.AllBloodTypes {
		pool := 40 + 20*len(bt.String())
		for i := 0; i < pool; i++ {
			status := domain.EligibilityEligible
			switch i % 10 {
			case 7:
				status = domain.EligibilityTemporarilyDeferred
			case 8:
				status = domain.EligibilityPendingReview
			case 9:
				status = domain.EligibilityIneligible
			}
			records = append(records, domain.DonorClinicalRecord{
				DonorID:          fmt.Sprintf("%s-%04d", bt, i),
				BloodType:        bt,
				Eligibility:      status,
				HasMedicalRecord: i%5 != 0,
				ScreeningResult:  "clear",
				UpdatedAt:        now,
			})
		}
	}
	donorRepo.LoadBatch(records)

	for _, bt := range domain.AllBloodTypes {
		baseline := cfg.Clinical.TypicalDailyDemand[bt.String()]
		invRepo.SetStock(domain.InventoryStockItem{
			BloodType:         bt,
			Units:             int(baseline * 5),
			AvgRemainingShelf: 28,
			UpdatedAt:         now,
		})

		for day := 90; day >= 1; day-- {
			// Mild weekly cycle around the baseline
			units := baseline * (1 + 0.1*float64(day%7-3)/3)
			historyRepo.AddObservations(domain.DemandObservation{
				BloodType: bt,
				Date:      now.AddDate(0, 0, -day),
				Units:     units,
			})
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func openDB(c *cli.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func initDB(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	schema := []string{
		`CREATE TABLE IF NOT EXISTS donor_clinical_records (
			donor_id TEXT PRIMARY KEY,
			blood_type TEXT NOT NULL,
			eligibility TEXT NOT NULL,
			has_medical_record BOOLEAN NOT NULL DEFAULT FALSE,
			screening_result TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS inventory_stock (
			blood_type TEXT PRIMARY KEY,
			units INTEGER NOT NULL,
			avg_remaining_shelf_days DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS demand_history (
			blood_type TEXT NOT NULL,
			date DATE NOT NULL,
			units DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (blood_type, date)
		)`,
		`CREATE TABLE IF NOT EXISTS optimization_reports (
			id UUID PRIMARY KEY,
			method TEXT NOT NULL,
			horizon_days INTEGER NOT NULL,
			generated_at TIMESTAMPTZ NOT NULL,
			payload JSONB NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(c.Context, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	log.Println("Schema initialized")
	return nil
}

// seedDonors loads donor clinical records from a CSV with columns:
// donor_id, blood_type, eligibility, has_medical_record, screening_result
func seedDonors(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return forEachCSVRow(c.Context, c.String("file"), 5, func(ctx context.Context, row []string) error {
		bloodType, err := domain.ParseBloodType(strings.TrimSpace(row[1]))
		if err != nil {
			return err
		}
		status, ok := domain.ParseEligibilityStatus(row[2])
		if !ok {
			return fmt.Errorf("unknown eligibility %q", row[2])
		}
		hasRecord := strings.EqualFold(strings.TrimSpace(row[3]), "true")

		_, err = db.ExecContext(ctx, `
			INSERT INTO donor_clinical_records
				(donor_id, blood_type, eligibility, has_medical_record, screening_result, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (donor_id) DO UPDATE SET
				blood_type = EXCLUDED.blood_type,
				eligibility = EXCLUDED.eligibility,
				has_medical_record = EXCLUDED.has_medical_record,
				screening_result = EXCLUDED.screening_result,
				updated_at = NOW()
		`, row[0], bloodType, status, hasRecord, nullIfEmpty(row[4]))
		return err
	})
}

// seedInventory loads the current stock snapshot from a CSV with columns:
// blood_type, units, avg_remaining_shelf_days
func seedInventory(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return forEachCSVRow(c.Context, c.String("file"), 3, func(ctx context.Context, row []string) error {
		bloodType, err := domain.ParseBloodType(strings.TrimSpace(row[0]))
		if err != nil {
			return err
		}
		units, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return fmt.Errorf("invalid units %q: %w", row[1], err)
		}
		shelf, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid shelf days %q: %w", row[2], err)
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO inventory_stock (blood_type, units, avg_remaining_shelf_days, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (blood_type) DO UPDATE SET
				units = EXCLUDED.units,
				avg_remaining_shelf_days = EXCLUDED.avg_remaining_shelf_days,
				updated_at = NOW()
		`, bloodType, units, shelf)
		return err
	})
}

// seedDemand loads daily demand history from a CSV with columns:
// blood_type, date (2006-01-02), units
func seedDemand(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return forEachCSVRow(c.Context, c.String("file"), 3, func(ctx context.Context, row []string) error {
		bloodType, err := domain.ParseBloodType(strings.TrimSpace(row[0]))
		if err != nil {
			return err
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", row[1], err)
		}
		units, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return fmt.Errorf("invalid units %q: %w", row[2], err)
		}

		_, err = db.ExecContext(ctx, `
			INSERT INTO demand_history (blood_type, date, units)
			VALUES ($1, $2, $3)
			ON CONFLICT (blood_type, date) DO UPDATE SET units = EXCLUDED.units
		`, bloodType, date, units)
		return err
	})
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func forEachCSVRow(ctx context.Context, path string, minColumns int, fn func(ctx context.Context, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header := true
	rows := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < minColumns {
			return fmt.Errorf("row %d has %d columns, expected %d", rows+2, len(row), minColumns)
		}
		if err := fn(ctx, row); err != nil {
			return fmt.Errorf("row %d: %w", rows+2, err)
		}
		rows++
	}

	log.Printf("Seeded %d rows from %s", rows, path)
	return nil
}

func newFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "file",
		Usage:    "CSV file to load",
		Required: true,
	}
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize and seed the blood optimization database",
		Commands: []*cli.Command{
			{
				Name:   "init-db",
				Usage:  "Create the database schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Action: initDB,
			},
			{
				Name:   "donors",
				Usage:  "Load donor clinical records from CSV",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag()},
				Action: seedDonors,
			},
			{
				Name:   "inventory",
				Usage:  "Load the inventory snapshot from CSV",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag()},
				Action: seedInventory,
			},
			{
				Name:   "demand",
				Usage:  "Load daily demand history from CSV",
				Flags:  []cli.Flag{newDBURLFlag(), newFileFlag()},
				Action: seedDemand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

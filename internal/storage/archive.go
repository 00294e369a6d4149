// Package storage exports optimization reports to S3-compatible object
// storage for long-term archival. The database remains the system of record;
// archival failures never fail a run.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

// ReportArchive writes immutable report copies to a durable sink.
type ReportArchive interface {
	ArchiveReport(ctx context.Context, report domain.OptimizationReport) error
}

type minioArchive struct {
	client *minio.Client
	bucket string
}

type noopArchive struct{}

// NewReportArchive builds an archive backed by S3-compatible storage, or a
// noop archive when archival is disabled.
func NewReportArchive(cfg config.ArchiveConfig) (ReportArchive, error) {
	if !cfg.Enabled {
		return &noopArchive{}, nil
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("archive endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("archive credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build archive client: %w", err)
	}

	return &minioArchive{client: client, bucket: cfg.Bucket}, nil
}

func NewNoopReportArchive() ReportArchive {
	return &noopArchive{}
}

func (a *minioArchive) ArchiveReport(ctx context.Context, report domain.OptimizationReport) error {
	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report for archive: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s.json", report.GeneratedAt.UTC().Format("2006/01/02"), report.ID)
	_, err = a.client.PutObject(ctx, a.bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to archive report %s: %w", report.ID, err)
	}

	return nil
}

func (a *noopArchive) ArchiveReport(ctx context.Context, report domain.OptimizationReport) error {
	return nil
}

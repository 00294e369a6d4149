package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IrrisMag/HealthTech-sub000/internal/config"
	"github.com/IrrisMag/HealthTech-sub000/internal/domain"
)

const (
	demandEstimateKeyPrefix = "demand:estimate"
	demandScanBatchSize     = 100
)

// DemandCache caches collaborator demand estimates between optimization runs.
// Fallback-sourced estimates are never cached so a recovered collaborator takes
// effect immediately.
type DemandCache interface {
	GetEstimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) (domain.DemandEstimate, bool, error)
	SetEstimate(ctx context.Context, estimate domain.DemandEstimate) error
	InvalidateAll(ctx context.Context) error
}

type redisDemandCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDemandCache struct{}

func NewDemandCache(cfg config.CacheConfig) (DemandCache, error) {
	if !cfg.Enabled {
		return &noopDemandCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDemandCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDemandCache() DemandCache {
	return &noopDemandCache{}
}

func (c *redisDemandCache) GetEstimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) (domain.DemandEstimate, bool, error) {
	key := buildDemandEstimateKey(bloodType, horizonDays)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.DemandEstimate{}, false, nil
	}
	if err != nil {
		return domain.DemandEstimate{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var estimate domain.DemandEstimate
	if err := json.Unmarshal(payload, &estimate); err != nil {
		return domain.DemandEstimate{}, false, fmt.Errorf("decode demand estimate cache: %w", err)
	}

	return estimate, true, nil
}

func (c *redisDemandCache) SetEstimate(ctx context.Context, estimate domain.DemandEstimate) error {
	if estimate.FallbackUsed {
		return nil
	}

	key := buildDemandEstimateKey(estimate.BloodType, estimate.HorizonDays)
	payload, err := json.Marshal(estimate)
	if err != nil {
		return fmt.Errorf("encode demand estimate cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDemandCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, demandEstimateKeyPrefix, demandScanBatchSize)
}

func (n *noopDemandCache) GetEstimate(ctx context.Context, bloodType domain.BloodType, horizonDays int) (domain.DemandEstimate, bool, error) {
	return domain.DemandEstimate{}, false, nil
}

func (n *noopDemandCache) SetEstimate(ctx context.Context, estimate domain.DemandEstimate) error {
	return nil
}

func (n *noopDemandCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildDemandEstimateKey(bloodType domain.BloodType, horizonDays int) string {
	return fmt.Sprintf("%s:%s:%d", demandEstimateKeyPrefix, bloodType, horizonDays)
}

package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"retailstock/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CacheService fronts stock-level reads. It is advisory only: the ledger never
// trusts a cached quantity for a mutation, every adjust re-reads under lock.
type CacheService interface {
	GetStockLevel(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error)
	SetStockLevel(ctx context.Context, level *models.StockLevel, ttl time.Duration) error
	DeleteStockLevel(ctx context.Context, productID uuid.UUID) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisCacheService{client: client}
}

func stockKey(productID uuid.UUID) string {
	return fmt.Sprintf("retailstock:stock:%s", productID.String())
}

func (r *redisCacheService) GetStockLevel(ctx context.Context, productID uuid.UUID) (*models.StockLevel, error) {
	data, err := r.client.Get(ctx, stockKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var level models.StockLevel
	if err := json.Unmarshal(data, &level); err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *redisCacheService) SetStockLevel(ctx context.Context, level *models.StockLevel, ttl time.Duration) error {
	data, err := json.Marshal(level)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, stockKey(level.ProductID), data, ttl).Err()
}

func (r *redisCacheService) DeleteStockLevel(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, stockKey(productID)).Err()
}

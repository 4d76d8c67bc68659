package redisinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/domain"
)

// CartCache is a read-through cache in front of the cart store. A miss is
// reported as ErrCacheMiss; any other error means Redis itself failed and
// callers fall back to the store.
type CartCache interface {
	Get(ctx context.Context, email string) (*domain.Cart, error)
	Set(ctx context.Context, email string, cart *domain.Cart) error
	Delete(ctx context.Context, email string) error
}

var ErrCacheMiss = errors.New("cache miss")

func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

type cartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewCartCache(client *redis.Client) CartCache {
	return &cartCache{client: client, baseTTL: 15 * time.Minute}
}

func (c *cartCache) Get(ctx context.Context, email string) (*domain.Cart, error) {
	data, err := c.client.Get(ctx, cacheKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart failed: %w", err)
	}
	return &cart, nil
}

func (c *cartCache) Set(ctx context.Context, email string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	// Jitter spreads expirations so a burst of carts cached together does
	// not all fall out of cache in the same instant.
	ttl := c.baseTTL + time.Duration(rand.Intn(300))*time.Second
	if err := c.client.Set(ctx, cacheKey(email), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *cartCache) Delete(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, cacheKey(email)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(email string) string {
	return fmt.Sprintf("cart:%s", email)
}

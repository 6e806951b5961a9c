package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gamestore/storefront/models"
)

// NewRedisClient initializes and returns a Redis client
func NewRedisClient(redisURL string) *redis.Client {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	return client
}

// RedisRepository stores cart blobs in Redis with a TTL. Used when the
// storefront runs multiple replicas and a shared cart backend is needed.
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisRepository) getKey(ownerID int64) string {
	return fmt.Sprintf("cart:user:%d", ownerID)
}

func (r *RedisRepository) Get(ctx context.Context, ownerID int64) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(ownerID)).Result()
	if err == redis.Nil {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	if cart.SchemaVersion != models.CartSchemaVersion {
		return nil, ErrCartNotFound
	}
	return &cart, nil
}

func (r *RedisRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.SchemaVersion = models.CartSchemaVersion
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.getKey(cart.OwnerID), data, r.ttl).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, ownerID int64) error {
	return r.client.Del(ctx, r.getKey(ownerID)).Err()
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

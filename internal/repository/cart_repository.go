package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serdchef/coskunyayci-backend/internal/models"
)

// CartRepository stores carts as JSON blobs in Redis with a TTL.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func (r *CartRepository) key(ownerID string) string {
	return fmt.Sprintf("cart:%s", ownerID)
}

// Get returns nil, nil when no cart exists for the owner.
func (r *CartRepository) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key(ownerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(cart.OwnerID), data, r.ttl).Err()
}

func (r *CartRepository) Delete(ctx context.Context, ownerID string) error {
	return r.client.Del(ctx, r.key(ownerID)).Err()
}

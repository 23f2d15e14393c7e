package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const stockKeyPrefix = "stock:"

// releaseClaimScript deletes a claim only if this process still owns it.
var releaseClaimScript = redis.NewScript(`
local key = KEYS[1]
local owner = ARGV[1]

if redis.call('GET', key) == owner then
	return redis.call('DEL', key)
end

return 0
`)

type RedisAdapter struct {
	client *redis.Client
	owner  string
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, owner: uuid.New().String()}
}

func (r *RedisAdapter) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, r.owner, ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	return releaseClaimScript.Run(ctx, r.client, []string{key}, r.owner).Err()
}

func (r *RedisAdapter) SetStock(ctx context.Context, itemID uint64, quantity uint64) error {
	return r.client.Set(ctx, stockKey(itemID), quantity, 0).Err()
}

func (r *RedisAdapter) DeleteStock(ctx context.Context, itemID uint64) error {
	return r.client.Del(ctx, stockKey(itemID)).Err()
}

// GetStock reads a mirrored quantity. ok is false when the item is not mirrored.
func (r *RedisAdapter) GetStock(ctx context.Context, itemID uint64) (quantity uint64, ok bool, err error) {
	quantity, err = r.client.Get(ctx, stockKey(itemID)).Uint64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return quantity, true, nil
}

func stockKey(itemID uint64) string {
	return stockKeyPrefix + strconv.FormatUint(itemID, 10)
}

package storage

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSetStock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "stock:9001")

	if err := adapter.SetStock(ctx, 9001, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verify
	stock, ok, err := adapter.GetStock(ctx, 9001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || stock != 7 {
		t.Errorf("expected stock 7, got %d (ok=%v)", stock, ok)
	}
}

func TestDeleteStock(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	adapter.SetStock(ctx, 9002, 3)
	if err := adapter.DeleteStock(ctx, 9002); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, ok, err := adapter.GetStock(ctx, 9002)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected stock to be gone")
	}
}

func TestClaim_Success(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "test-claim-key")

	// First call should succeed
	ok, err := adapter.Claim(ctx, "test-claim-key", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected first call to succeed")
	}

	// Second call should fail (key exists)
	ok, err = adapter.Claim(ctx, "test-claim-key", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected second call to fail")
	}
}

func TestRelease_OnlyOwner(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	owner := NewRedisAdapter(client)
	other := NewRedisAdapter(client)

	client.Del(ctx, "test-release-key")

	if ok, _ := owner.Claim(ctx, "test-release-key", time.Minute); !ok {
		t.Fatal("expected claim to succeed")
	}

	// Another process must not free our claim
	if err := other.Release(ctx, "test-release-key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := other.Claim(ctx, "test-release-key", time.Minute); ok {
		t.Error("expected key to still be claimed")
	}

	if err := owner.Release(ctx, "test-release-key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok, _ := other.Claim(ctx, "test-release-key", time.Minute); !ok {
		t.Error("expected key to be free after owner release")
	}
	client.Del(ctx, "test-release-key")
}

func TestClaim_Concurrent(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client)

	// Setup
	client.Del(ctx, "concurrent-claim-key")

	var successCount atomic.Int32
	var wg sync.WaitGroup
	concurrency := 100

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := adapter.Claim(ctx, "concurrent-claim-key", time.Minute)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	// Only one should succeed
	if successCount.Load() != 1 {
		t.Errorf("expected exactly 1 success, got %d", successCount.Load())
	}
}

package routing

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"fleetopt/internal/model"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheWithClient(rdb, 5*time.Minute), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t)
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("empty get: hit=%v err=%v", hit, err)
	}

	want := Route{
		Path:        []model.Point{{Lat: 52.5, Lng: 13.4}, {Lat: 52.6, Lng: 13.5}},
		DistanceKm:  12.3,
		DurationMin: 24.6,
	}
	if err := c.Put(ctx, "k", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("get: hit=%v err=%v", hit, err)
	}
	if got.DistanceKm != want.DistanceKm || len(got.Path) != 2 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRedisCacheExpiry(t *testing.T) {
	c, mr := newTestRedisCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, "k", Route{DistanceKm: 1}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(6 * time.Minute)
	if _, hit, err := c.Get(ctx, "k"); err != nil || hit {
		t.Fatalf("expired entry: hit=%v err=%v", hit, err)
	}
}

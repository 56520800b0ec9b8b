package cache

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/kapu/azerite-bot-go/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGearKey(t *testing.T) {
	require.Equal(t, "bis:entry:Death_Knight/Blood/San'layn",
		gearKey(domain.BuildKey{Class: "Death_Knight", Spec: "Blood", HeroTalent: "San'layn"}))
	require.Equal(t, "bis:entry:Rogue/Outlaw", gearKey(domain.BuildKey{Class: "Rogue", Spec: "Outlaw"}))
}

// Runs against a real Redis only when REDIS_TEST_HOST is set.
func TestGearSnapshotRoundTrip(t *testing.T) {
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("REDIS_TEST_PORT"))
	if port == 0 {
		port = 6379
	}

	svc, err := NewCacheService(CacheConfig{Host: host, Port: port, DB: 15}, zap.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	ctx := context.Background()
	key := domain.BuildKey{Class: "Mage", Spec: "Fire", HeroTalent: "Sunfury"}
	created := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, svc.StoreGear(ctx, key, GearSnapshot{
		Gear:      domain.GearSet{{Slot: "Head", Name: "Helm"}},
		CreatedAt: created,
	}, time.Minute))

	snap, found, err := svc.LoadGear(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Helm", snap.Gear[0].Name)
	require.True(t, snap.CreatedAt.Equal(created))

	ttl, err := svc.TTL(ctx, gearKey(key))
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	deleted, err := svc.ClearGear(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))

	_, found, err = svc.LoadGear(ctx, key)
	require.NoError(t, err)
	require.False(t, found)

	// ttl <= 0 is a no-op
	require.NoError(t, svc.StoreGear(ctx, key, GearSnapshot{}, 0))
	_, found, _ = svc.LoadGear(ctx, key)
	require.False(t, found)
}

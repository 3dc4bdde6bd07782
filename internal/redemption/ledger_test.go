package redemption_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/internal/redemption"
	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/logger"
	"github.com/hugmug/claimkit/pkg/pg"
)

func TestClaimKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `claim:"HUGMUG":"Black":42`, redemption.ClaimKey(testRecord))
	assert.NotEqual(t,
		redemption.ClaimKey(claimtoken.ClaimRecord{SerialNumber: 1, Color: "a:b", ProductType: "c"}),
		redemption.ClaimKey(claimtoken.ClaimRecord{SerialNumber: 1, Color: "a", ProductType: "b:c"}),
	)
}

// exerciseLedger runs the shared Ledger contract against any backend.
func exerciseLedger(t *testing.T, ledger redemption.Ledger, key string) {
	ctx := context.Background()

	_, ok, err := ledger.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ledger.Reserve(ctx, key, time.Minute))
	require.ErrorIs(t, ledger.Reserve(ctx, key, time.Minute), redemption.ErrRedemptionPending)

	_, ok, err = ledger.Lookup(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "a reservation is not a redemption")

	require.NoError(t, ledger.Release(ctx, key))
	require.NoError(t, ledger.Reserve(ctx, key, time.Minute))

	r := redemption.Redemption{
		ID:         uuid.New(),
		Record:     testRecord,
		Recipient:  testRecipient,
		TxHash:     "0xabc",
		RedeemedAt: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, ledger.Commit(ctx, key, r))
	require.ErrorIs(t, ledger.Reserve(ctx, key, time.Minute), redemption.ErrAlreadyRedeemed)

	require.NoError(t, ledger.Release(ctx, key))
	got, ok, err := ledger.Lookup(ctx, key)
	require.NoError(t, err)
	require.True(t, ok, "release never removes a committed redemption")
	assert.Equal(t, r, got)
}

func TestMemoryLedger(t *testing.T) {
	t.Parallel()
	exerciseLedger(t, redemption.NewMemoryLedger(), redemption.ClaimKey(testRecord))
}

func TestMemoryLedger_ReservationExpires(t *testing.T) {
	t.Parallel()

	ledger := redemption.NewMemoryLedger()
	ctx := context.Background()
	require.NoError(t, ledger.Reserve(ctx, "k", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, ledger.Reserve(ctx, "k", time.Minute))
}

func TestRedisLedger(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set, skipping integration test")
	}
	opts, err := goredis.ParseURL(url)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	defer client.Close()

	prefix := fmt.Sprintf("claimkit-test:%s:", uuid.NewString())
	key := redemption.ClaimKey(testRecord)
	t.Cleanup(func() { client.Del(context.Background(), prefix+key) })

	exerciseLedger(t, redemption.NewRedisLedger(client, prefix), key)
}

func TestPostgresLedger(t *testing.T) {
	url := os.Getenv("PG_URL")
	if url == "" {
		t.Skip("PG_URL not set, skipping integration test")
	}
	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "claimkit_test_migrations"}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, pg.Migrate(ctx, pool, redemption.Migrations, "migrations", cfg, logger.Noop()))

	key := "test:" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DELETE FROM claim_redemptions WHERE claim_key = $1", key)
	})

	exerciseLedger(t, redemption.NewPostgresLedger(pool), key)
}

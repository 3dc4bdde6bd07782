package redemption

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingMarker = "pending"

// releaseScript deletes the key only while it still holds a reservation.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLedger stores reservations and redemptions in Redis so that several
// claimd instances share one view of what has been claimed.
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLedger(client redis.UniversalClient, prefix string) *RedisLedger {
	return &RedisLedger{client: client, prefix: prefix}
}

func (l *RedisLedger) Reserve(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.prefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	if ok {
		return nil
	}

	val, err := l.client.Get(ctx, l.prefix+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// The reservation expired between SETNX and GET; try once more.
		return l.reserveOnce(ctx, key, ttl)
	case err != nil:
		return errors.Join(ErrLedgerUnavailable, err)
	case val == pendingMarker:
		return ErrRedemptionPending
	default:
		return ErrAlreadyRedeemed
	}
}

func (l *RedisLedger) reserveOnce(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := l.client.SetNX(ctx, l.prefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	if !ok {
		return ErrRedemptionPending
	}
	return nil
}

func (l *RedisLedger) Commit(ctx context.Context, key string, r Redemption) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := l.client.Set(ctx, l.prefix+key, data, 0).Err(); err != nil {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	return nil
}

func (l *RedisLedger) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.prefix + key}, pendingMarker).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	return nil
}

func (l *RedisLedger) Lookup(ctx context.Context, key string) (Redemption, bool, error) {
	val, err := l.client.Get(ctx, l.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return Redemption{}, false, nil
	}
	if err != nil {
		return Redemption{}, false, errors.Join(ErrLedgerUnavailable, err)
	}
	if val == pendingMarker {
		return Redemption{}, false, nil
	}

	var r Redemption
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		return Redemption{}, false, errors.Join(ErrLedgerUnavailable, err)
	}
	return r, true, nil
}

package redemption

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hugmug/claimkit/pkg/pg"
)

// Migrations holds the schema used by PostgresLedger, under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of *pgxpool.Pool used by PostgresLedger.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLedger keeps redemptions in the claim_redemptions table.
type PostgresLedger struct {
	db DB
}

func NewPostgresLedger(db DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

const reserveQuery = `
INSERT INTO claim_redemptions (claim_key, state, expires_at)
VALUES ($1, 'pending', now() + $2 * interval '1 second')
ON CONFLICT (claim_key) DO UPDATE
    SET expires_at = EXCLUDED.expires_at, updated_at = now()
    WHERE claim_redemptions.state = 'pending' AND claim_redemptions.expires_at <= now()
RETURNING claim_key`

func (l *PostgresLedger) Reserve(ctx context.Context, key string, ttl time.Duration) error {
	var got string
	err := l.db.QueryRow(ctx, reserveQuery, key, ttl.Seconds()).Scan(&got)
	if err == nil {
		return nil
	}
	if !pg.IsNotFoundError(err) {
		return errors.Join(ErrLedgerUnavailable, err)
	}

	var state string
	err = l.db.QueryRow(ctx, `SELECT state FROM claim_redemptions WHERE claim_key = $1`, key).Scan(&state)
	switch {
	case pg.IsNotFoundError(err):
		// Released between the two statements.
		return ErrRedemptionPending
	case err != nil:
		return errors.Join(ErrLedgerUnavailable, err)
	case state == "redeemed":
		return ErrAlreadyRedeemed
	default:
		return ErrRedemptionPending
	}
}

func (l *PostgresLedger) Commit(ctx context.Context, key string, r Redemption) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `
INSERT INTO claim_redemptions (claim_key, state, redemption)
VALUES ($1, 'redeemed', $2)
ON CONFLICT (claim_key) DO UPDATE
    SET state = 'redeemed', expires_at = NULL, redemption = EXCLUDED.redemption, updated_at = now()`,
		key, data)
	if err != nil {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	return nil
}

func (l *PostgresLedger) Release(ctx context.Context, key string) error {
	if _, err := l.db.Exec(ctx, `DELETE FROM claim_redemptions WHERE claim_key = $1 AND state = 'pending'`, key); err != nil {
		return errors.Join(ErrLedgerUnavailable, err)
	}
	return nil
}

func (l *PostgresLedger) Lookup(ctx context.Context, key string) (Redemption, bool, error) {
	var data []byte
	err := l.db.QueryRow(ctx, `SELECT redemption FROM claim_redemptions WHERE claim_key = $1 AND state = 'redeemed'`, key).Scan(&data)
	if pg.IsNotFoundError(err) {
		return Redemption{}, false, nil
	}
	if err != nil {
		return Redemption{}, false, errors.Join(ErrLedgerUnavailable, err)
	}

	var r Redemption
	if err := json.Unmarshal(data, &r); err != nil {
		return Redemption{}, false, errors.Join(ErrLedgerUnavailable, err)
	}
	return r, true, nil
}

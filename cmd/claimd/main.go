// Command claimd serves the claim API: token inspection, redemption, minted
// token lookup and ENS names.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hugmug/claimkit/internal/api"
	"github.com/hugmug/claimkit/internal/ens"
	"github.com/hugmug/claimkit/internal/mint"
	"github.com/hugmug/claimkit/internal/nftindex"
	"github.com/hugmug/claimkit/internal/redemption"
	"github.com/hugmug/claimkit/pkg/config"
	"github.com/hugmug/claimkit/pkg/httpserver"
	"github.com/hugmug/claimkit/pkg/logger"
	"github.com/hugmug/claimkit/pkg/pg"
	"github.com/hugmug/claimkit/pkg/ratelimiter"
	claimredis "github.com/hugmug/claimkit/pkg/redis"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "claimd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		app     appConfig
		fileCfg logger.FileConfig
	)
	if err := config.Load(&app); err != nil {
		return err
	}
	if err := config.Load(&fileCfg); err != nil {
		return err
	}
	logOpts := []logger.Option{
		logger.WithEnvironment(app.Env, "claimd"),
		logger.WithContextExtractors(api.RequestIDExtractor),
	}
	if f, ok := logger.RotatingFile(fileCfg); ok {
		defer f.Close()
		logOpts = append(logOpts, logger.WithTee(f))
	}
	log := logger.New(logOpts...)

	var (
		claimCfg redemption.Config
		mintCfg  mint.Config
		indexCfg nftindex.Config
		ensCfg   ens.Config
		apiCfg   api.Config
		httpCfg  httpserver.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&claimCfg) },
		func() error { return config.Load(&mintCfg) },
		func() error { return config.Load(&indexCfg) },
		func() error { return config.Load(&ensCfg) },
		func() error { return config.Load(&apiCfg) },
		func() error { return config.Load(&httpCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	ledger, checks, closeLedger, err := newLedger(ctx, claimCfg, log)
	if err != nil {
		return err
	}
	defer closeLedger()

	minter, closeMinter, err := newMinter(ctx, mintCfg, log)
	if err != nil {
		return err
	}
	defer closeMinter()

	svc, err := redemption.NewServiceFromConfig(claimCfg, ledger, minter, log)
	if err != nil {
		return err
	}

	store := ratelimiter.NewMemoryStore()
	defer store.Close()
	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       apiCfg.RateLimitBurst,
		RefillRate:     apiCfg.RateLimitRefill,
		RefillInterval: apiCfg.RateLimitInterval,
	})
	if err != nil {
		return err
	}

	opts := []api.Option{
		api.WithLogger(log),
		api.WithRateLimiter(bucket),
		api.WithMaxBodyBytes(apiCfg.MaxBodyBytes),
		api.WithReadinessChecks(checks...),
	}
	idx, err := nftindex.New(indexCfg, nil)
	switch {
	case errors.Is(err, nftindex.ErrNotConfigured):
		log.Warn("nft index not configured, token lookup disabled")
	case err != nil:
		return err
	default:
		opts = append(opts, api.WithIndex(idx))
	}

	names, err := ens.Dial(ctx, ensCfg)
	switch {
	case errors.Is(err, ens.ErrNotConfigured):
		log.Warn("ENS_RPC_URL not set, name lookup disabled")
	case err != nil:
		return err
	default:
		defer names.Close()
		opts = append(opts, api.WithNames(names))
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, api.NewRouter(svc, opts...))
}

func newLedger(ctx context.Context, cfg redemption.Config, log *slog.Logger) (redemption.Ledger, []func(context.Context) error, func(), error) {
	switch cfg.Ledger {
	case "memory", "":
		if cfg.SingleUse {
			log.Warn("using in-memory claim ledger, redemptions are lost on restart")
		}
		return redemption.NewMemoryLedger(), nil, func() {}, nil
	case "redis":
		var redisCfg claimredis.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, nil, nil, err
		}
		client, err := claimredis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		}
		checks := []func(context.Context) error{claimredis.Healthcheck(client)}
		return redemption.NewRedisLedger(client, "claimkit:"), checks, closeFn, nil
	case "postgres":
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, redemption.Migrations, "migrations", pgCfg, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		checks := []func(context.Context) error{pg.Healthcheck(pool)}
		return redemption.NewPostgresLedger(pool), checks, pool.Close, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %q", redemption.ErrUnknownLedger, cfg.Ledger)
	}
}

func newMinter(ctx context.Context, cfg mint.Config, log *slog.Logger) (redemption.Minter, func(), error) {
	if !cfg.Enabled() {
		log.Warn("MINT_RPC_URL not set, minting disabled")
		return mint.Disabled{}, func() {}, nil
	}
	m, err := mint.NewEthereumMinter(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Close, nil
}

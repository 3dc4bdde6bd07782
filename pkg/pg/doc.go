// Package pg connects to PostgreSQL through a pgx/v5 pool and applies goose
// migrations from an fs.FS, typically an embed.FS owned by the package that
// defines the schema.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, redemption.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
//
// Healthcheck returns a func(context.Context) error suitable for readiness
// probes. IsDuplicateKeyError and IsNotFoundError classify pgx errors.
package pg

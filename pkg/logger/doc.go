// Package logger builds *slog.Logger instances for claimkit services.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the resulting handler so that request-scoped
// values such as the request id are added to every record logged with a
// context.
//
// Attribute helpers (Error, Component, Serial, ProductType, TxHash, ...) keep
// key names consistent across packages. Claim tokens and secrets have no
// helper and must not be logged.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "claimd"),
//	    logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "claim redeemed", logger.Serial(42), logger.TxHash(hash))
package logger

// Package redis connects claimkit services to Redis using github.com/redis/go-redis/v9.
//
// Connect parses a redis:// URL, pings with retries until the server answers or
// the connect timeout expires, and returns a ready client. Healthcheck returns a
// probe suitable for the readiness endpoint.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis

// Package config loads typed configuration from the process environment.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Each configuration type is
// parsed once and cached for the lifetime of the process, so packages can call
// Load for the same struct without re-reading the environment.
//
// # Usage
//
//	type ClaimConfig struct {
//	    Secret string `env:"CLAIM_SECRET,required,unset"`
//	    BaseURL string `env:"CLAIM_BASE_URL" envDefault:"http://localhost:8080/mint"`
//	}
//
//	var cfg ClaimConfig
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Use LoadEnv to read specific .env files before the first Load; otherwise
// a .env file in the working directory is read if present. Reset clears the
// cache and is meant for tests.
package config

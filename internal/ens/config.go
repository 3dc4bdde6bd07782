package ens

import "time"

// Config selects the mainnet endpoint used for reverse lookups. An empty
// RPCURL disables the resolver.
type Config struct {
	RPCURL   string        `env:"ENS_RPC_URL,unset"` // may embed a provider API key
	Registry string        `env:"ENS_REGISTRY" envDefault:"0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"`
	Timeout  time.Duration `env:"ENS_TIMEOUT" envDefault:"10s"`
}

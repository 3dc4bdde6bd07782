package nftindex

import "time"

// Config points the client at the indexer and the collection contract.
// MaxPages bounds how far TokenIDBySerial pages through the collection.
type Config struct {
	BaseURL         string        `env:"NFT_INDEX_BASE_URL" envDefault:"https://base-sepolia.g.alchemy.com/nft/v3"`
	APIKey          string        `env:"NFT_INDEX_API_KEY,unset"`
	ContractAddress string        `env:"CONTRACT_ADDRESS"`
	Timeout         time.Duration `env:"NFT_INDEX_TIMEOUT" envDefault:"10s"`
	MaxPages        int           `env:"NFT_INDEX_MAX_PAGES" envDefault:"20"`
}

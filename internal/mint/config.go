package mint

import "time"

// Config describes the collectible contract and the account that pays for mints.
type Config struct {
	RPCURL          string            `env:"MINT_RPC_URL"`
	ChainID         int64             `env:"MINT_CHAIN_ID" envDefault:"84532"` // Base Sepolia
	ContractAddress string            `env:"CONTRACT_ADDRESS"`
	PrivateKey      string            `env:"MINT_PRIVATE_KEY,unset"`
	GasLimit        uint64            `env:"MINT_GAS_LIMIT" envDefault:"600000"`
	ReceiptTimeout  time.Duration     `env:"MINT_RECEIPT_TIMEOUT" envDefault:"45s"`
	Collections     map[string]uint64 `env:"MINT_COLLECTIONS" envSeparator:"," envKeyValSeparator:":"` // HUGMUG:1,CUP:2
	Colors          map[string]uint64 `env:"MINT_COLORS" envSeparator:"," envKeyValSeparator:":"`      // Black:1,White:2
	CatalogFile     string            `env:"MINT_CATALOG_FILE"`                                        // YAML, see LoadCatalog
}

// Enabled reports whether enough is configured to talk to a chain.
func (c Config) Enabled() bool {
	return c.RPCURL != ""
}

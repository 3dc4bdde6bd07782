package mint

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/logger"
)

const testPrivateKey = "0x4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestMintABI_PacksMintFor(t *testing.T) {
	t.Parallel()

	parsed, err := abi.JSON(strings.NewReader(mintABI))
	require.NoError(t, err)

	recipient := common.HexToAddress("0x9B8082423Cca2c0ddcf447A765890b6FD0a6069a")
	data, err := parsed.Pack("mintFor", recipient, uint64(1), uint64(42), uint64(10))
	require.NoError(t, err)

	// 4-byte selector + four 32-byte words
	require.Len(t, data, 4+4*32)
	assert.Equal(t, parsed.Methods["mintFor"].ID, data[:4])
	assert.Equal(t, byte(42), data[4+3*32-1], "serial is the third argument")

	_, err = parsed.Pack("mintFor", recipient, "HUGMUG", uint64(42), uint64(10))
	assert.Error(t, err, "collection must be numeric")
}

func TestNewEthereumMinter_ConfigErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "disabled", cfg: Config{}, want: ErrMintingDisabled},
		{name: "bad contract", cfg: Config{RPCURL: "http://127.0.0.1:1", ContractAddress: "nope", PrivateKey: testPrivateKey}, want: ErrInvalidConfig},
		{name: "bad key", cfg: Config{RPCURL: "http://127.0.0.1:1", ContractAddress: "0x345cA3e014Aaf5dcA488057592ee47305D9B3e10", PrivateKey: "zz"}, want: ErrInvalidConfig},
		{name: "unreachable node", cfg: Config{RPCURL: "http://127.0.0.1:1", ContractAddress: "0x345cA3e014Aaf5dcA488057592ee47305D9B3e10", PrivateKey: testPrivateKey}, want: ErrConnectFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEthereumMinter(context.Background(), tt.cfg, logger.Noop())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	_, err := Disabled{}.Mint(context.Background(), "0x9B8082423Cca2c0ddcf447A765890b6FD0a6069a", claimtoken.ClaimRecord{})
	require.ErrorIs(t, err, ErrMintingDisabled)
}

func TestEthereumMinter_Live(t *testing.T) {
	rpcURL := os.Getenv("MINT_RPC_URL")
	contract := os.Getenv("CONTRACT_ADDRESS")
	key := os.Getenv("MINT_PRIVATE_KEY")
	if rpcURL == "" || contract == "" || key == "" {
		t.Skip("chain not configured, skipping integration test")
	}

	m, err := NewEthereumMinter(context.Background(), Config{
		RPCURL:          rpcURL,
		ContractAddress: contract,
		PrivateKey:      key,
		GasLimit:        600000,
	}, logger.Noop())
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Mint(context.Background(), "not-an-address", claimtoken.ClaimRecord{SerialNumber: 1, Color: "1", ProductType: "1"})
	require.ErrorIs(t, err, ErrInvalidRecipient)
}

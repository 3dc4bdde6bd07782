package mint

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/hugmug/claimkit/pkg/claimtoken"
	"github.com/hugmug/claimkit/pkg/logger"
)

const mintABI = `[{
	"type": "function",
	"name": "mintFor",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "recipient", "type": "address"},
		{"name": "collection", "type": "uint64"},
		{"name": "serialNumber", "type": "uint64"},
		{"name": "color", "type": "uint64"}
	],
	"outputs": []
}]`

// EthereumMinter calls mintFor on the collectible contract.
type EthereumMinter struct {
	client         *ethclient.Client
	contract       *bind.BoundContract
	key            *ecdsa.PrivateKey
	chainID        *big.Int
	gasLimit       uint64
	receiptTimeout time.Duration
	catalog        Catalog
	log            *slog.Logger
}

// NewEthereumMinter dials the RPC endpoint and checks it serves cfg.ChainID.
func NewEthereumMinter(ctx context.Context, cfg Config, log *slog.Logger) (*EthereumMinter, error) {
	if !cfg.Enabled() {
		return nil, ErrMintingDisabled
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("%w: contract address %q", ErrInvalidConfig, cfg.ContractAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("private key: %w", err))
	}
	catalog, err := CatalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(strings.NewReader(mintABI))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, errors.Join(ErrConnectFailed, err)
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, errors.Join(ErrConnectFailed, err)
	}
	if cfg.ChainID != 0 && chainID.Int64() != cfg.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: want %d, got %s", ErrChainMismatch, cfg.ChainID, chainID)
	}

	addr := common.HexToAddress(cfg.ContractAddress)
	if log == nil {
		log = logger.Noop()
	}
	if n, c := catalog.Len(); n == 0 || c == 0 {
		log.Warn("mint catalog is empty, only numeric product types and colors will mint")
	}

	return &EthereumMinter{
		client:         client,
		contract:       bind.NewBoundContract(addr, parsed, client, client, client),
		key:            key,
		chainID:        chainID,
		gasLimit:       cfg.GasLimit,
		receiptTimeout: cfg.ReceiptTimeout,
		catalog:        catalog,
		log:            log.With(logger.Component("mint")),
	}, nil
}

// Mint sends mintFor(recipient, collection, serial, color) and waits for the
// receipt. It returns the transaction hash. When the transaction was sent but
// no receipt arrived in time, the hash is returned together with
// ErrReceiptTimeout.
func (m *EthereumMinter) Mint(ctx context.Context, recipient string, rec claimtoken.ClaimRecord) (string, error) {
	if !common.IsHexAddress(recipient) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}
	collection, color, err := m.catalog.Resolve(rec)
	if err != nil {
		return "", err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(m.key, m.chainID)
	if err != nil {
		return "", errors.Join(ErrTransactionFailed, err)
	}
	opts.Context = ctx
	opts.GasLimit = m.gasLimit

	tx, err := m.contract.Transact(opts, "mintFor", common.HexToAddress(recipient), collection, rec.SerialNumber, color)
	if err != nil {
		return "", errors.Join(ErrTransactionFailed, err)
	}
	m.log.InfoContext(ctx, "mint transaction sent",
		logger.TxHash(tx.Hash().Hex()),
		logger.Serial(rec.SerialNumber),
		logger.ProductType(rec.ProductType),
	)

	// The transaction is out; a client disconnect must not cut the wait short.
	waitCtx := context.WithoutCancel(ctx)
	if m.receiptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(waitCtx, m.receiptTimeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(waitCtx, m.client, tx)
	if err != nil {
		return tx.Hash().Hex(), errors.Join(ErrReceiptTimeout, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		// Nothing was minted, so no hash is returned and the claim stays open.
		m.log.WarnContext(ctx, "mint transaction reverted", logger.TxHash(tx.Hash().Hex()))
		return "", fmt.Errorf("%w: %s", ErrTransactionReverted, tx.Hash().Hex())
	}
	return tx.Hash().Hex(), nil
}

// Close releases the RPC connection.
func (m *EthereumMinter) Close() {
	m.client.Close()
}

// Disabled is used when no chain is configured; every mint fails with ErrMintingDisabled.
type Disabled struct{}

func (Disabled) Mint(context.Context, string, claimtoken.ClaimRecord) (string, error) {
	return "", ErrMintingDisabled
}

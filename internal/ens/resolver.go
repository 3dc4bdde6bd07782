// Package ens resolves Ethereum addresses to their primary ENS name.
package ens

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const registryABI = `[{
	"type": "function",
	"name": "resolver",
	"stateMutability": "view",
	"inputs": [{"name": "node", "type": "bytes32"}],
	"outputs": [{"name": "", "type": "address"}]
}]`

const resolverABI = `[{
	"type": "function",
	"name": "name",
	"stateMutability": "view",
	"inputs": [{"name": "node", "type": "bytes32"}],
	"outputs": [{"name": "", "type": "string"}]
}, {
	"type": "function",
	"name": "addr",
	"stateMutability": "view",
	"inputs": [{"name": "node", "type": "bytes32"}],
	"outputs": [{"name": "", "type": "address"}]
}]`

// Resolver performs ENS reverse resolution with forward verification.
type Resolver struct {
	caller   bind.ContractCaller
	registry *bind.BoundContract
	resolver abi.ABI
	timeout  time.Duration
	close    func()
}

// NewResolver reads the ENS registry at registry through caller.
func NewResolver(caller bind.ContractCaller, registry common.Address, timeout time.Duration) (*Resolver, error) {
	reg, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	res, err := abi.JSON(strings.NewReader(resolverABI))
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &Resolver{
		caller:   caller,
		registry: bind.NewBoundContract(registry, reg, caller, nil, nil),
		resolver: res,
		timeout:  timeout,
		close:    func() {},
	}, nil
}

// Dial connects to cfg.RPCURL. It returns ErrNotConfigured when no endpoint is set.
func Dial(ctx context.Context, cfg Config) (*Resolver, error) {
	if cfg.RPCURL == "" {
		return nil, ErrNotConfigured
	}
	if !common.IsHexAddress(cfg.Registry) {
		return nil, fmt.Errorf("%w: registry %q", ErrInvalidConfig, cfg.Registry)
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		// The URL may carry an API key; keep it out of the error.
		return nil, fmt.Errorf("%w: dial failed", ErrInvalidConfig)
	}
	r, err := NewResolver(client, common.HexToAddress(cfg.Registry), cfg.Timeout)
	if err != nil {
		client.Close()
		return nil, err
	}
	r.close = client.Close
	return r, nil
}

// Close releases the RPC connection, if Dial opened one.
func (r *Resolver) Close() {
	r.close()
}

// LookupAddress returns the primary name of address, or "" when it has none
// or the name does not resolve back to address.
func (r *Resolver) LookupAddress(ctx context.Context, address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	addr := common.HexToAddress(address)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	reverse := namehash(hex.EncodeToString(addr.Bytes()) + ".addr.reverse")
	res, err := r.resolverFor(ctx, reverse)
	if err != nil || res == nil {
		return "", err
	}
	var out []any
	if err := res.Call(&bind.CallOpts{Context: ctx}, &out, "name", reverse); err != nil {
		return "", errors.Join(ErrLookupFailed, err)
	}
	name := out[0].(string)
	if name == "" {
		return "", nil
	}

	forward := namehash(strings.ToLower(name))
	res, err = r.resolverFor(ctx, forward)
	if err != nil || res == nil {
		return "", err
	}
	out = nil
	if err := res.Call(&bind.CallOpts{Context: ctx}, &out, "addr", forward); err != nil {
		return "", errors.Join(ErrLookupFailed, err)
	}
	if out[0].(common.Address) != addr {
		return "", nil
	}
	return name, nil
}

// resolverFor returns the resolver contract set for node, or nil when none is.
func (r *Resolver) resolverFor(ctx context.Context, node [32]byte) (*bind.BoundContract, error) {
	var out []any
	if err := r.registry.Call(&bind.CallOpts{Context: ctx}, &out, "resolver", node); err != nil {
		return nil, errors.Join(ErrLookupFailed, err)
	}
	addr := out[0].(common.Address)
	if addr == (common.Address{}) {
		return nil, nil
	}
	return bind.NewBoundContract(addr, r.resolver, r.caller, nil, nil), nil
}

// namehash implements the recursive ENS name hash.
func namehash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		copy(node[:], crypto.Keccak256(node[:], crypto.Keccak256([]byte(labels[i]))))
	}
	return node
}

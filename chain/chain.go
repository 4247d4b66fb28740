// Package chain describes the single target network the wallet operates on
// and the read-only view of it the rest of the module consumes.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Currency is the network's native currency.
type Currency struct {
	Name     string
	Symbol   string
	Decimals int
}

// Network is an immutable descriptor of one EVM network. It is built once
// from configuration and shared by every component.
type Network struct {
	ChainID     *big.Int
	Name        string
	Currency    Currency
	RPCURL      string
	BundlerURL  string
	ExplorerURL string
	Testnet     bool
}

const amoyChainID = 80002

// PolygonAmoy returns the Polygon Amoy descriptor with project-scoped
// ZeroDev RPC and bundler endpoints.
func PolygonAmoy(projectID string) *Network {
	rpcURL := fmt.Sprintf("https://rpc.zerodev.app/api/v3/%s/chain/%d", projectID, amoyChainID)
	return &Network{
		ChainID: big.NewInt(amoyChainID),
		Name:    "Polygon Amoy",
		Currency: Currency{
			Name:     "MATIC",
			Symbol:   "MATIC",
			Decimals: 18,
		},
		RPCURL:      rpcURL,
		BundlerURL:  rpcURL,
		ExplorerURL: "https://www.oklink.com/amoy",
		Testnet:     true,
	}
}

// TxURL returns the explorer link for a transaction hash.
func (n *Network) TxURL(hash common.Hash) string {
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, hash.Hex())
}

// AddressURL returns the explorer link for an address.
func (n *Network) AddressURL(addr common.Address) string {
	return fmt.Sprintf("%s/address/%s", n.ExplorerURL, addr.Hex())
}

// FormatNative renders a native-currency amount in base units as a decimal
// string with the currency's full precision.
func (n *Network) FormatNative(amount *big.Int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	decimals := n.Currency.Decimals
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	v := new(big.Int).Abs(amount)
	quo, rem := new(big.Int).QuoRem(v, unit, new(big.Int))

	sign := ""
	if amount.Sign() < 0 {
		sign = "-"
	}
	frac := strings.TrimRight(fmt.Sprintf("%0*s", decimals, rem.Text(10)), "0")
	if frac == "" {
		return sign + quo.Text(10)
	}
	return sign + quo.Text(10) + "." + frac
}

// Reader is the read-only network handle. *ethclient.Client satisfies it.
type Reader interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

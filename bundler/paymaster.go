package bundler

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/userop"
)

// PaymasterClient asks the sponsorship service to cover an operation's gas.
type PaymasterClient struct {
	rpc        *rpc.Client
	entryPoint common.Address
	chainID    *big.Int
}

func NewPaymasterClient(rpcClient *rpc.Client, entryPoint common.Address, chainID *big.Int) *PaymasterClient {
	return &PaymasterClient{rpc: rpcClient, entryPoint: entryPoint, chainID: chainID}
}

// DialPaymaster connects to the paymaster endpoint.
func DialPaymaster(url string, entryPoint common.Address, chainID *big.Int) (*PaymasterClient, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		return nil, apperr.Classify("bundler.DialPaymaster", err)
	}
	return NewPaymasterClient(rpcClient, entryPoint, chainID), nil
}

func (p *PaymasterClient) Close() {
	p.rpc.Close()
}

type sponsorRequest struct {
	ChainID           *hexutil.Big         `json:"chainId"`
	UserOp            *userop.UserOperation `json:"userOp"`
	EntryPointAddress common.Address       `json:"entryPointAddress"`
	ShouldOverrideFee bool                 `json:"shouldOverrideFee"`
}

// SponsorUserOperation submits the unsigned operation for sponsorship. On
// approval the result carries the paymaster binding and the gas limits to
// stamp onto the operation before signing.
func (p *PaymasterClient) SponsorUserOperation(ctx context.Context, op *userop.UserOperation) (*SponsorResult, error) {
	req := sponsorRequest{
		ChainID:           (*hexutil.Big)(p.chainID),
		UserOp:            op,
		EntryPointAddress: p.entryPoint,
	}

	var result SponsorResult
	err := p.rpc.CallContext(ctx, &result, "zd_sponsorUserOperation", req)
	if err != nil {
		return nil, apperr.Classify("bundler.SponsorUserOperation", err)
	}
	return &result, nil
}

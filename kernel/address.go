package kernel

import (
	"context"
	"fmt"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/chain"
)

// Address computes the account's counterfactual contract address with one
// read-only factory getAddress call. The result depends only on the account
// descriptor, not on whether the contract has been deployed, so repeated
// calls always agree. Network failures propagate; nothing is retried here.
func (a *Account) Address(ctx context.Context, reader chain.Reader) (common.Address, error) {
	initData, err := a.InitData()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encode account init data: %w", err)
	}

	callData, err := factoryABI.Pack("getAddress", initData, a.Salt())
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encode getAddress call: %w", err)
	}

	output, err := reader.CallContract(ctx, ethereum.CallMsg{
		To:   &a.Factory,
		Data: callData,
	}, nil)
	if err != nil {
		return common.Address{}, apperr.Classify("kernel.Address", err)
	}

	values, err := factoryABI.Unpack("getAddress", output)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode getAddress response: %w", err)
	}
	return values[0].(common.Address), nil
}

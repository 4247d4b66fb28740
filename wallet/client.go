package wallet

import (
	"context"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/auth"
	"github.com/amoypay/gasless-wallet/bundler"
	"github.com/amoypay/gasless-wallet/chain"
	"github.com/amoypay/gasless-wallet/kernel"
	"github.com/amoypay/gasless-wallet/userop"
)

// AccountClient is a stateful handle bound to one smart wallet: the session
// credential as ECDSA root validator, the paymaster as fee sponsor and the
// bundler for fee estimation and submission. Clients are built per
// orchestration call and become invalid once their session disconnects.
type AccountClient struct {
	account    *kernel.Account
	address    common.Address
	signer     auth.Signer
	reader     chain.Reader
	bundler    Bundler
	paymaster  Paymaster
	chainID    *big.Int
	entryPoint common.Address
}

// SmartAccountClient builds the client for the active credential at account
// index 0. Fails with NotAuthenticated when the session is disconnected;
// endpoint errors during address derivation propagate unmodified.
func (s *Service) SmartAccountClient(ctx context.Context) (*AccountClient, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return nil, err
	}

	account := kernel.NewAccount(signer.Address(), big.NewInt(0))
	address, err := account.Address(ctx, s.reader)
	if err != nil {
		return nil, err
	}

	return &AccountClient{
		account:    account,
		address:    address,
		signer:     signer,
		reader:     s.reader,
		bundler:    s.bundler,
		paymaster:  s.paymaster,
		chainID:    s.network.ChainID,
		entryPoint: account.EntryPoint,
	}, nil
}

// Address returns the smart wallet address the client is bound to.
func (c *AccountClient) Address() common.Address { return c.address }

// EncodeCalls encodes one or more calls into a single execute payload. Pure:
// the same calls always produce the same payload.
func (c *AccountClient) EncodeCalls(calls []kernel.Call) ([]byte, error) {
	return c.account.EncodeCalls(calls)
}

// nonce reads the account's next nonce from the entry point.
func (c *AccountClient) nonce(ctx context.Context) (*big.Int, error) {
	callData, err := kernel.GetNonceCallData(c.address)
	if err != nil {
		return nil, fmt.Errorf("failed to encode getNonce call: %w", err)
	}
	output, err := c.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &c.entryPoint,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, apperr.Classify("wallet.nonce", err)
	}
	return kernel.UnpackNonce(output)
}

// deployed reports whether the account contract exists on-chain yet.
func (c *AccountClient) deployed(ctx context.Context) (bool, error) {
	code, err := c.reader.CodeAt(ctx, c.address, nil)
	if err != nil {
		return false, apperr.Classify("wallet.deployed", err)
	}
	return len(code) > 0, nil
}

// SendUserOperation assembles, sponsors, signs and submits one operation
// carrying callData, returning the operation hash the bundler tracks it by.
func (c *AccountClient) SendUserOperation(ctx context.Context, callData []byte) (common.Hash, error) {
	op := &userop.UserOperation{
		Sender:   c.address,
		CallData: callData,
	}

	nonce, err := c.nonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	op.Nonce = nonce

	isDeployed, err := c.deployed(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if !isDeployed {
		factoryData, err := c.account.FactoryData()
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to encode factory data: %w", err)
		}
		factory := c.account.Factory
		op.Factory = &factory
		op.FactoryData = factoryData
	}

	// Fees come from the bundler's recommendation, not local heuristics.
	gasPrice, err := c.bundler.GetUserOperationGasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	op.MaxFeePerGas = toBig(gasPrice.Standard.MaxFeePerGas)
	op.MaxPriorityFeePerGas = toBig(gasPrice.Standard.MaxPriorityFeePerGas)

	// The paymaster decides who pays and returns the validated gas limits.
	sponsorship, err := c.paymaster.SponsorUserOperation(ctx, op)
	if err != nil {
		return common.Hash{}, err
	}
	paymaster := sponsorship.Paymaster
	op.Paymaster = &paymaster
	op.PaymasterData = sponsorship.PaymasterData
	op.PaymasterVerificationGasLimit = toBig(sponsorship.PaymasterVerificationGasLimit)
	op.PaymasterPostOpGasLimit = toBig(sponsorship.PaymasterPostOpGasLimit)
	op.CallGasLimit = toBig(sponsorship.CallGasLimit)
	op.VerificationGasLimit = toBig(sponsorship.VerificationGasLimit)
	op.PreVerificationGas = toBig(sponsorship.PreVerificationGas)

	if err := userop.Validate(op); err != nil {
		return common.Hash{}, fmt.Errorf("assembled user operation invalid: %w", err)
	}

	signature, err := c.signer.SignUserOperationHash(op.Hash(c.entryPoint, c.chainID))
	if err != nil {
		return common.Hash{}, apperr.Classify("wallet.SendUserOperation", err)
	}
	op.Signature = signature

	return c.bundler.SendUserOperation(ctx, op)
}

// toBig normalizes an optional wire quantity. nil counts as zero.
func toBig(v *hexutil.Big) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToInt()
}

// WaitForUserOperationReceipt blocks until the bundler reports the receipt
// carrying the actual on-chain transaction hash. No internal timeout: bound
// the wait through ctx.
func (c *AccountClient) WaitForUserOperationReceipt(ctx context.Context, opHash common.Hash) (*bundler.Receipt, error) {
	return c.bundler.WaitForUserOperationReceipt(ctx, opHash)
}

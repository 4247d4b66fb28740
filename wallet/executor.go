package wallet

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/bundler"
	"github.com/amoypay/gasless-wallet/kernel"
	"github.com/amoypay/gasless-wallet/token"
)

// Result is the outcome of one confirmed submission. Hash is the on-chain
// transaction hash from the receipt, not the operation hash.
type Result struct {
	Hash    common.Hash
	Receipt *bundler.Receipt
}

// ExecuteGaslessTransaction submits one sponsored call and waits for its
// on-chain confirmation. value may be nil for zero.
func (s *Service) ExecuteGaslessTransaction(ctx context.Context, to common.Address, data []byte, value *big.Int) (*Result, error) {
	return s.ExecuteBatchedTransactions(ctx, []kernel.Call{{To: to, Data: data, Value: value}})
}

// ExecuteBatchedTransactions encodes all calls into a single operation that
// succeeds or fails as one atomic unit, in list order. Steps run strictly in
// sequence: balance guard, encode, submit, await receipt. Nothing is retried
// here; a failed invocation can simply be re-invoked by the caller.
func (s *Service) ExecuteBatchedTransactions(ctx context.Context, calls []kernel.Call) (*Result, error) {
	client, err := s.SmartAccountClient(ctx)
	if err != nil {
		return nil, err
	}

	// Normalize missing values to zero and total the native amount moved.
	totalValue := new(big.Int)
	for i := range calls {
		if calls[i].Value == nil {
			calls[i].Value = new(big.Int)
		}
		totalValue.Add(totalValue, calls[i].Value)
	}

	// Pre-flight guard: catch an inevitable on-chain revert before wasting a
	// round trip to the bundler. Gas itself is sponsored, so only the moved
	// value matters.
	if totalValue.Sign() > 0 {
		balance, err := s.reader.BalanceAt(ctx, client.Address(), nil)
		if err != nil {
			return nil, apperr.Classify("wallet.ExecuteBatchedTransactions", err)
		}
		if balance.Cmp(totalValue) < 0 {
			return nil, apperr.New(apperr.CodeInsufficientBalance, "wallet.ExecuteBatchedTransactions",
				fmt.Sprintf("insufficient balance: required %s wei, available %s wei", totalValue, balance))
		}
	}

	callData, err := client.EncodeCalls(calls)
	if err != nil {
		return nil, fmt.Errorf("failed to encode calls: %w", err)
	}

	opHash, err := client.SendUserOperation(ctx, callData)
	if err != nil {
		return nil, apperr.Classify("wallet.ExecuteBatchedTransactions", err)
	}

	receipt, err := client.WaitForUserOperationReceipt(ctx, opHash)
	if err != nil {
		return nil, apperr.Classify("wallet.ExecuteBatchedTransactions", err)
	}

	return &Result{Hash: receipt.Receipt.TransactionHash, Receipt: receipt}, nil
}

// ExecuteApprovalAndTransfer authorizes spender and transfers amount to
// recipient in the minimal number of operations. When the standing allowance
// already covers amount only the transfer is submitted; otherwise approve
// and transfer go out as one atomic batch, so no reader can observe the
// approval without the transfer and nothing can slip between the two steps.
// Amount validity (including zero) is the caller's concern; no rounding
// happens here.
func (s *Service) ExecuteApprovalAndTransfer(ctx context.Context, spender, recipient common.Address, amount *big.Int) (*Result, error) {
	owner, err := s.SmartWalletAddress(ctx)
	if err != nil {
		return nil, err
	}

	allowance, err := s.usdc.Allowance(ctx, owner, spender)
	if err != nil {
		return nil, err
	}

	transferData, err := s.usdc.TransferCallData(recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer: %w", err)
	}

	calls := []kernel.Call{{To: s.usdc.Address, Data: transferData}}

	if allowance.Cmp(amount) < 0 {
		approveData, err := s.usdc.ApproveCallData(spender, amount)
		if err != nil {
			return nil, fmt.Errorf("failed to encode approve: %w", err)
		}
		calls = []kernel.Call{
			{To: s.usdc.Address, Data: approveData},
			{To: s.usdc.Address, Data: transferData},
		}
	}

	return s.ExecuteBatchedTransactions(ctx, calls)
}

// TransferTokens parses a human-readable USDC amount, checks it against the
// wallet's token balance and submits the transfer. The balance check lives
// here, before the executor, so an oversized amount never reaches the
// bundler.
func (s *Service) TransferTokens(ctx context.Context, recipient common.Address, amount string) (*Result, error) {
	value, err := token.ParseUSDC(amount)
	if err != nil {
		return nil, err
	}

	balance, err := s.TokenBalance(ctx)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(value) < 0 {
		return nil, apperr.New(apperr.CodeInsufficientBalance, "wallet.TransferTokens",
			fmt.Sprintf("insufficient USDC balance: have %s, need %s", token.FormatUSDC(balance), token.FormatUSDC(value)))
	}

	transferData, err := s.usdc.TransferCallData(recipient, value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer: %w", err)
	}
	return s.ExecuteGaslessTransaction(ctx, s.usdc.Address, transferData, nil)
}

// MintTestTokens calls the test token's faucet mint through the executor.
func (s *Service) MintTestTokens(ctx context.Context, amount *big.Int) (*Result, error) {
	mintData, err := s.usdc.MintCallData(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mint: %w", err)
	}
	return s.ExecuteGaslessTransaction(ctx, s.usdc.Address, mintData, nil)
}

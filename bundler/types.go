// Package bundler speaks the ERC-4337 JSON-RPC surface of the bundler and
// paymaster endpoint: operation submission, receipt lookup, fee estimation
// and gas sponsorship.
package bundler

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// FeeEstimate is one fee tier from the bundler's recommendation.
type FeeEstimate struct {
	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas"`
}

// GasPriceResult is the bundler's current fee recommendation by tier.
type GasPriceResult struct {
	Slow     FeeEstimate `json:"slow"`
	Standard FeeEstimate `json:"standard"`
	Fast     FeeEstimate `json:"fast"`
}

// SponsorResult is the paymaster's sponsorship decision: who pays, the
// sponsorship proof bytes and the gas limits the paymaster validated against.
type SponsorResult struct {
	Paymaster                     common.Address `json:"paymaster"`
	PaymasterData                 hexutil.Bytes  `json:"paymasterData"`
	PaymasterVerificationGasLimit *hexutil.Big   `json:"paymasterVerificationGasLimit"`
	PaymasterPostOpGasLimit       *hexutil.Big   `json:"paymasterPostOpGasLimit"`
	CallGasLimit                  *hexutil.Big   `json:"callGasLimit"`
	VerificationGasLimit          *hexutil.Big   `json:"verificationGasLimit"`
	PreVerificationGas            *hexutil.Big   `json:"preVerificationGas"`
}

// TxReceipt is the on-chain transaction the bundler included the operation in.
type TxReceipt struct {
	TransactionHash common.Hash  `json:"transactionHash"`
	BlockHash       common.Hash  `json:"blockHash"`
	BlockNumber     *hexutil.Big `json:"blockNumber"`
	GasUsed         *hexutil.Big `json:"gasUsed"`
	Status          *hexutil.Big `json:"status"`
}

// Receipt is the bundler's view of a confirmed user operation. The receipt
// only exists after inclusion; until then lookups return nothing.
type Receipt struct {
	UserOpHash    common.Hash  `json:"userOpHash"`
	Sender        common.Address `json:"sender"`
	Nonce         *hexutil.Big `json:"nonce"`
	Success       bool         `json:"success"`
	ActualGasUsed *hexutil.Big `json:"actualGasUsed"`
	ActualGasCost *hexutil.Big `json:"actualGasCost"`
	Receipt       TxReceipt    `json:"receipt"`
}

package userop

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// uint256Bytes left-pads a big.Int to a 32-byte word. nil counts as zero.
func uint256Bytes(b *big.Int) []byte {
	if b == nil {
		b = new(big.Int)
	}
	return common.LeftPadBytes(b.Bytes(), 32)
}

// uint128Bytes left-pads a big.Int to a 16-byte half word. nil counts as zero.
func uint128Bytes(b *big.Int) []byte {
	if b == nil {
		b = new(big.Int)
	}
	return common.LeftPadBytes(b.Bytes(), 16)
}

// packHiLo packs two uint128 values into one 32-byte word, high half first.
// v0.7 stores (verificationGasLimit, callGasLimit) and
// (maxPriorityFeePerGas, maxFeePerGas) this way.
func packHiLo(hi, lo *big.Int) []byte {
	return append(uint128Bytes(hi), uint128Bytes(lo)...)
}

// Pack produces the static encoding the entry point hashes:
//
//	abi.encode(sender, nonce, keccak(initCode), keccak(callData),
//	           accountGasLimits, preVerificationGas, gasFees,
//	           keccak(paymasterAndData))
func (op *UserOperation) Pack() []byte {
	packed := make([]byte, 0, 32*8)
	packed = append(packed, common.LeftPadBytes(op.Sender.Bytes(), 32)...)
	packed = append(packed, uint256Bytes(op.Nonce)...)
	packed = append(packed, crypto.Keccak256(op.InitCode())...)
	packed = append(packed, crypto.Keccak256(op.CallData)...)
	packed = append(packed, packHiLo(op.VerificationGasLimit, op.CallGasLimit)...)
	packed = append(packed, uint256Bytes(op.PreVerificationGas)...)
	packed = append(packed, packHiLo(op.MaxPriorityFeePerGas, op.MaxFeePerGas)...)
	packed = append(packed, crypto.Keccak256(op.PaymasterAndData())...)
	return packed
}

// Hash computes the user-operation hash signed by the account owner:
// keccak(abi.encode(keccak(pack(op)), entryPoint, chainID)). The hash is
// available before submission; it is not the on-chain transaction hash.
func (op *UserOperation) Hash(entryPoint common.Address, chainID *big.Int) common.Hash {
	inner := crypto.Keccak256(op.Pack())

	encoded := make([]byte, 0, 96)
	encoded = append(encoded, inner...)
	encoded = append(encoded, common.LeftPadBytes(entryPoint.Bytes(), 32)...)
	encoded = append(encoded, uint256Bytes(chainID)...)

	return crypto.Keccak256Hash(encoded)
}

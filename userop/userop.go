// Package userop models the ERC-4337 v0.7 user operation: the unit of intent
// submitted to a bundler, distinct from a native transaction. It carries the
// bundler wire codec and the packing/hashing rules the entry point applies.
package userop

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/goccy/go-json"
)

// UserOperation is the v0.7 unpacked form: factory and paymaster fields are
// split out rather than packed into initCode/paymasterAndData. Optional
// address fields are nil pointers until the corresponding step fills them.
type UserOperation struct {
	Sender               common.Address `json:"sender"               mapstructure:"sender"               validate:"required"`
	Nonce                *big.Int       `json:"nonce"                mapstructure:"nonce"                validate:"required"`
	Factory              *common.Address `json:"factory,omitempty"   mapstructure:"factory"`
	FactoryData          []byte         `json:"factoryData,omitempty" mapstructure:"factoryData"`
	CallData             []byte         `json:"callData"             mapstructure:"callData"             validate:"required"`
	CallGasLimit         *big.Int       `json:"callGasLimit"         mapstructure:"callGasLimit"`
	VerificationGasLimit *big.Int       `json:"verificationGasLimit" mapstructure:"verificationGasLimit"`
	PreVerificationGas   *big.Int       `json:"preVerificationGas"   mapstructure:"preVerificationGas"`
	MaxFeePerGas         *big.Int       `json:"maxFeePerGas"         mapstructure:"maxFeePerGas"`
	MaxPriorityFeePerGas *big.Int       `json:"maxPriorityFeePerGas" mapstructure:"maxPriorityFeePerGas"`
	Paymaster                     *common.Address `json:"paymaster,omitempty" mapstructure:"paymaster"`
	PaymasterVerificationGasLimit *big.Int        `json:"paymasterVerificationGasLimit,omitempty" mapstructure:"paymasterVerificationGasLimit"`
	PaymasterPostOpGasLimit       *big.Int        `json:"paymasterPostOpGasLimit,omitempty" mapstructure:"paymasterPostOpGasLimit"`
	PaymasterData                 []byte          `json:"paymasterData,omitempty" mapstructure:"paymasterData"`
	Signature                     []byte          `json:"signature" mapstructure:"signature"`
}

// InitCode reassembles the v0.6-style initCode from the split factory fields.
// Empty when the account is already deployed.
func (op *UserOperation) InitCode() []byte {
	if op.Factory == nil {
		return nil
	}
	return append(op.Factory.Bytes(), op.FactoryData...)
}

// PaymasterAndData reassembles the packed paymaster field:
// paymaster (20) ++ paymasterVerificationGasLimit (16) ++ paymasterPostOpGasLimit (16) ++ paymasterData.
func (op *UserOperation) PaymasterAndData() []byte {
	if op.Paymaster == nil {
		return nil
	}
	out := make([]byte, 0, 52+len(op.PaymasterData))
	out = append(out, op.Paymaster.Bytes()...)
	out = append(out, uint128Bytes(op.PaymasterVerificationGasLimit)...)
	out = append(out, uint128Bytes(op.PaymasterPostOpGasLimit)...)
	out = append(out, op.PaymasterData...)
	return out
}

// wire is the hex-string form bundlers speak.
type wire struct {
	Sender                        string `json:"sender"`
	Nonce                         string `json:"nonce"`
	Factory                       string `json:"factory,omitempty"`
	FactoryData                   string `json:"factoryData,omitempty"`
	CallData                      string `json:"callData"`
	CallGasLimit                  string `json:"callGasLimit"`
	VerificationGasLimit          string `json:"verificationGasLimit"`
	PreVerificationGas            string `json:"preVerificationGas"`
	MaxFeePerGas                  string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas          string `json:"maxPriorityFeePerGas"`
	Paymaster                     string `json:"paymaster,omitempty"`
	PaymasterVerificationGasLimit string `json:"paymasterVerificationGasLimit,omitempty"`
	PaymasterPostOpGasLimit       string `json:"paymasterPostOpGasLimit,omitempty"`
	PaymasterData                 string `json:"paymasterData,omitempty"`
	Signature                     string `json:"signature"`
}

func encodeBig(b *big.Int) string {
	if b == nil {
		return "0x0"
	}
	return hexutil.EncodeBig(b)
}

func encodeBytes(b []byte) string {
	if len(b) == 0 {
		return "0x"
	}
	return hexutil.Encode(b)
}

// MarshalJSON renders the bundler wire form: every quantity as a 0x hex
// string, optional fields omitted when unset.
func (op *UserOperation) MarshalJSON() ([]byte, error) {
	aux := wire{
		Sender:               op.Sender.Hex(),
		Nonce:                encodeBig(op.Nonce),
		CallData:             encodeBytes(op.CallData),
		CallGasLimit:         encodeBig(op.CallGasLimit),
		VerificationGasLimit: encodeBig(op.VerificationGasLimit),
		PreVerificationGas:   encodeBig(op.PreVerificationGas),
		MaxFeePerGas:         encodeBig(op.MaxFeePerGas),
		MaxPriorityFeePerGas: encodeBig(op.MaxPriorityFeePerGas),
		Signature:            encodeBytes(op.Signature),
	}
	if op.Factory != nil {
		aux.Factory = op.Factory.Hex()
		aux.FactoryData = encodeBytes(op.FactoryData)
	}
	if op.Paymaster != nil {
		aux.Paymaster = op.Paymaster.Hex()
		aux.PaymasterVerificationGasLimit = encodeBig(op.PaymasterVerificationGasLimit)
		aux.PaymasterPostOpGasLimit = encodeBig(op.PaymasterPostOpGasLimit)
		aux.PaymasterData = encodeBytes(op.PaymasterData)
	}
	return json.Marshal(aux)
}

// UnmarshalJSON does the reverse of the wire form marshaler.
func (op *UserOperation) UnmarshalJSON(data []byte) error {
	var aux wire
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	op.Sender = common.HexToAddress(aux.Sender)

	op.Nonce, err = hexutil.DecodeBig(aux.Nonce)
	if err != nil {
		return err
	}

	if aux.Factory != "" {
		factory := common.HexToAddress(aux.Factory)
		op.Factory = &factory
		if op.FactoryData, err = hexutil.Decode(aux.FactoryData); err != nil {
			return err
		}
	}

	if op.CallData, err = hexutil.Decode(aux.CallData); err != nil {
		return err
	}

	if op.CallGasLimit, err = hexutil.DecodeBig(aux.CallGasLimit); err != nil {
		return err
	}
	if op.VerificationGasLimit, err = hexutil.DecodeBig(aux.VerificationGasLimit); err != nil {
		return err
	}
	if op.PreVerificationGas, err = hexutil.DecodeBig(aux.PreVerificationGas); err != nil {
		return err
	}
	if op.MaxFeePerGas, err = hexutil.DecodeBig(aux.MaxFeePerGas); err != nil {
		return err
	}
	if op.MaxPriorityFeePerGas, err = hexutil.DecodeBig(aux.MaxPriorityFeePerGas); err != nil {
		return err
	}

	if aux.Paymaster != "" {
		paymaster := common.HexToAddress(aux.Paymaster)
		op.Paymaster = &paymaster
		if op.PaymasterVerificationGasLimit, err = hexutil.DecodeBig(aux.PaymasterVerificationGasLimit); err != nil {
			return err
		}
		if op.PaymasterPostOpGasLimit, err = hexutil.DecodeBig(aux.PaymasterPostOpGasLimit); err != nil {
			return err
		}
		if op.PaymasterData, err = hexutil.Decode(aux.PaymasterData); err != nil {
			return err
		}
	}

	if op.Signature, err = hexutil.Decode(aux.Signature); err != nil {
		return err
	}

	return nil
}

func (op *UserOperation) String() string {
	formatBytes := func(b []byte) string {
		if len(b) == 0 {
			return "0x"
		}
		return fmt.Sprintf("0x%x", b)
	}

	formatBigInt := func(b *big.Int) string {
		if b == nil {
			return "0x, 0"
		}
		return fmt.Sprintf("0x%x, %s", b, b.Text(10))
	}

	formatAddr := func(a *common.Address) string {
		if a == nil {
			return "<nil>"
		}
		return a.Hex()
	}

	return fmt.Sprintf(
		"UserOperation{\n"+
			"  Sender: %s\n"+
			"  Nonce: %s\n"+
			"  Factory: %s\n"+
			"  FactoryData: %s\n"+
			"  CallData: %s\n"+
			"  CallGasLimit: %s\n"+
			"  VerificationGasLimit: %s\n"+
			"  PreVerificationGas: %s\n"+
			"  MaxFeePerGas: %s\n"+
			"  MaxPriorityFeePerGas: %s\n"+
			"  Paymaster: %s\n"+
			"  PaymasterData: %s\n"+
			"  Signature: %s\n"+
			"}",
		op.Sender.Hex(),
		formatBigInt(op.Nonce),
		formatAddr(op.Factory),
		formatBytes(op.FactoryData),
		formatBytes(op.CallData),
		formatBigInt(op.CallGasLimit),
		formatBigInt(op.VerificationGasLimit),
		formatBigInt(op.PreVerificationGas),
		formatBigInt(op.MaxFeePerGas),
		formatBigInt(op.MaxPriorityFeePerGas),
		formatAddr(op.Paymaster),
		formatBytes(op.PaymasterData),
		formatBytes(op.Signature),
	)
}

package kernel

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Call is one intended contract interaction. A nil Value means zero.
type Call struct {
	To    common.Address `json:"to" validate:"required"`
	Data  []byte         `json:"data"`
	Value *big.Int       `json:"value,omitempty"`
}

// ERC-7579 execution modes: the first byte of the 32-byte mode word selects
// the call type; the rest stays zero for plain revert-on-failure execution.
const (
	callTypeSingle = 0x00
	callTypeBatch  = 0x01
)

func execMode(callType byte) [32]byte {
	var mode [32]byte
	mode[0] = callType
	return mode
}

var executionArgs abi.Arguments

func init() {
	executionType, err := abi.NewType("tuple[]", "", []abi.ArgumentMarshaling{
		{Name: "target", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "callData", Type: "bytes"},
	})
	if err != nil {
		panic(err)
	}
	executionArgs = abi.Arguments{{Type: executionType}}
}

type execution struct {
	Target   common.Address `abi:"target"`
	Value    *big.Int       `abi:"value"`
	CallData []byte         `abi:"callData"`
}

// EncodeCalls turns one or more calls into a single execute payload. One call
// uses the packed single-call mode; several calls are ABI-encoded as an
// execution batch that succeeds or reverts as one unit, in list order. The
// encoding is pure: equal call lists yield equal payloads.
func (a *Account) EncodeCalls(calls []Call) ([]byte, error) {
	if len(calls) == 0 {
		return nil, errors.New("no calls to encode")
	}

	var (
		executionCalldata []byte
		err               error
		callType          byte
	)

	if len(calls) == 1 {
		callType = callTypeSingle
		executionCalldata = encodeSingle(calls[0])
	} else {
		callType = callTypeBatch
		executionCalldata, err = encodeBatch(calls)
		if err != nil {
			return nil, fmt.Errorf("failed to encode call batch: %w", err)
		}
	}

	return kernelABI.Pack("execute", execMode(callType), executionCalldata)
}

// encodeSingle packs target (20) ++ value (32) ++ data.
func encodeSingle(call Call) []byte {
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	out := make([]byte, 0, 52+len(call.Data))
	out = append(out, call.To.Bytes()...)
	out = append(out, common.LeftPadBytes(value.Bytes(), 32)...)
	out = append(out, call.Data...)
	return out
}

func encodeBatch(calls []Call) ([]byte, error) {
	executions := make([]execution, len(calls))
	for i, call := range calls {
		value := call.Value
		if value == nil {
			value = new(big.Int)
		}
		executions[i] = execution{
			Target:   call.To,
			Value:    value,
			CallData: call.Data,
		}
	}
	return executionArgs.Pack(executions)
}

// DecodeBatch reverses encodeBatch. Diagnostics and tests use it to inspect
// an encoded payload's execution list.
func DecodeBatch(executionCalldata []byte) ([]Call, error) {
	values, err := executionArgs.Unpack(executionCalldata)
	if err != nil {
		return nil, err
	}

	raw, ok := values[0].([]struct {
		Target   common.Address `json:"target"`
		Value    *big.Int       `json:"value"`
		CallData []byte         `json:"callData"`
	})
	if !ok {
		return nil, errors.New("unexpected execution batch shape")
	}

	calls := make([]Call, len(raw))
	for i, e := range raw {
		calls[i] = Call{To: e.Target, Value: e.Value, Data: e.CallData}
	}
	return calls, nil
}

// UnpackExecute splits an execute payload back into its mode byte and
// execution calldata.
func UnpackExecute(payload []byte) (byte, []byte, error) {
	if len(payload) < 4 {
		return 0, nil, errors.New("payload shorter than a selector")
	}
	values, err := kernelABI.Methods["execute"].Inputs.Unpack(payload[4:])
	if err != nil {
		return 0, nil, err
	}
	mode := values[0].([32]byte)
	return mode[0], values[1].([]byte), nil
}

// Package token binds the USDC contract interface: amount parsing and
// formatting at the token's exact 6-decimal scale, address validation,
// calldata builders for the write methods and read helpers for balances and
// allowances.
package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/chain"
)

// Decimals is USDC's fixed scale. All amount conversion uses it exactly.
const Decimals = 6

var unit = big.NewInt(1_000_000)

const erc20ABIJSON = `[
  {"name":"name","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"string"}]},
  {"name":"symbol","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"string"}]},
  {"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint8"}]},
  {"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
  {"name":"balanceOf","type":"function","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"}],"outputs":[{"type":"uint256"}]},
  {"name":"allowance","type":"function","stateMutability":"view",
   "inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],
   "outputs":[{"type":"uint256"}]},
  {"name":"transfer","type":"function","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"type":"bool"}]},
  {"name":"transferFrom","type":"function","stateMutability":"nonpayable",
   "inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"type":"bool"}]},
  {"name":"approve","type":"function","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"type":"bool"}]},
  {"name":"mint","type":"function","stateMutability":"nonpayable",
   "inputs":[{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
  {"name":"Transfer","type":"event","anonymous":false,
   "inputs":[{"indexed":true,"name":"from","type":"address"},
             {"indexed":true,"name":"to","type":"address"},
             {"indexed":false,"name":"value","type":"uint256"}]},
  {"name":"Approval","type":"event","anonymous":false,
   "inputs":[{"indexed":true,"name":"owner","type":"address"},
             {"indexed":true,"name":"spender","type":"address"},
             {"indexed":false,"name":"value","type":"uint256"}]}
]`

var erc20ABI abi.ABI

func init() {
	var err error
	if erc20ABI, err = abi.JSON(strings.NewReader(erc20ABIJSON)); err != nil {
		panic(err)
	}
}

// ParseUSDC converts a non-negative decimal string to base units,
// e.g. "1.5" -> 1500000. More than 6 fractional digits is an error rather
// than a silent rounding.
func ParseUSDC(amount string) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, errors.New("invalid USDC amount: empty string")
	}
	if strings.HasPrefix(s, "-") {
		return nil, errors.New("invalid USDC amount: negative")
	}

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if hasFrac && fracPart == "" {
		return nil, fmt.Errorf("invalid USDC amount: %q", amount)
	}
	if len(fracPart) > Decimals {
		return nil, fmt.Errorf("invalid USDC amount: more than %d decimal places", Decimals)
	}

	whole, ok := new(big.Int).SetString(intPart, 10)
	if !ok || whole.Sign() < 0 {
		return nil, fmt.Errorf("invalid USDC amount: %q", amount)
	}

	value := new(big.Int).Mul(whole, unit)
	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart+strings.Repeat("0", Decimals-len(fracPart)), 10)
		if !ok || frac.Sign() < 0 {
			return nil, fmt.Errorf("invalid USDC amount: %q", amount)
		}
		value.Add(value, frac)
	}
	return value, nil
}

// FormatUSDC renders base units as a decimal string padded to the full
// 6-decimal scale, e.g. 1500000 -> "1.500000".
func FormatUSDC(amount *big.Int) string {
	if amount == nil {
		amount = new(big.Int)
	}
	sign := ""
	v := new(big.Int).Abs(amount)
	if amount.Sign() < 0 {
		sign = "-"
	}
	quo, rem := new(big.Int).QuoRem(v, unit, new(big.Int))
	return fmt.Sprintf("%s%s.%06d", sign, quo.Text(10), rem.Int64())
}

// IsValidAddress reports whether s is a well-formed address. Mixed-case
// inputs must additionally carry a correct EIP-55 checksum.
func IsValidAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}

	hexPart := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hexPart == strings.ToLower(hexPart) || hexPart == strings.ToUpper(hexPart) {
		return true
	}
	return common.HexToAddress(s).Hex()[2:] == hexPart
}

// Token is the bound contract handle: address plus a read-only network view.
type Token struct {
	Address common.Address
	reader  chain.Reader
}

func New(address common.Address, reader chain.Reader) *Token {
	return &Token{Address: address, reader: reader}
}

// ApproveCallData encodes approve(spender, amount).
func (t *Token) ApproveCallData(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

// TransferCallData encodes transfer(to, amount).
func (t *Token) TransferCallData(to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount)
}

// TransferFromCallData encodes transferFrom(from, to, amount).
func (t *Token) TransferFromCallData(from, to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transferFrom", from, to, amount)
}

// MintCallData encodes the test-token faucet mint(amount).
func (t *Token) MintCallData(amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("mint", amount)
}

func (t *Token) readUint(ctx context.Context, op, method string, args ...any) (*big.Int, error) {
	callData, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s call: %w", method, err)
	}

	output, err := t.reader.CallContract(ctx, ethereum.CallMsg{
		To:   &t.Address,
		Data: callData,
	}, nil)
	if err != nil {
		return nil, apperr.Classify(op, err)
	}

	values, err := erc20ABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return values[0].(*big.Int), nil
}

// BalanceOf reads the token balance of owner.
func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return t.readUint(ctx, "token.BalanceOf", "balanceOf", owner)
}

// Allowance reads how much spender may move on behalf of owner.
func (t *Token) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return t.readUint(ctx, "token.Allowance", "allowance", owner, spender)
}

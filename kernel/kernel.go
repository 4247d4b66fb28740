// Package kernel describes the Kernel v3 smart account: protocol version
// constants, the ECDSA root validator binding, deterministic address
// derivation and ERC-7579 call encoding. The address scheme is
// counterfactual: it is fixed by (owner, versions, index) before the account
// contract exists on-chain.
package kernel

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Protocol version identifiers. Address derivation and client construction
// must agree on these for addresses to match.
const (
	EntryPointVersion = "0.7"
	KernelVersion     = "0.3.3"
)

var (
	// EntryPointAddress is the ERC-4337 v0.7 entry point, deployed at the
	// same address on all supported networks.
	EntryPointAddress = common.HexToAddress("0x0000000071727De22E5E9d8BAf0edAc6f37da032")

	// FactoryAddress is the Kernel v3 account factory (via the staker meta
	// factory deployment).
	FactoryAddress = common.HexToAddress("0xaac5D4240AF87249B3f71BC8E4A2cae074A3E419")

	// ECDSAValidatorAddress is the sudo validator module binding an EOA
	// signature check to the account.
	ECDSAValidatorAddress = common.HexToAddress("0x845ADb2C711129d4f3966735eD98a9F09fC4cE57")
)

// validator module type prefix within a 21-byte validation id.
const validatorIDType = 0x01

const factoryABIJSON = `[
  {"name":"getAddress","type":"function","stateMutability":"view",
   "inputs":[{"name":"data","type":"bytes"},{"name":"salt","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]},
  {"name":"createAccount","type":"function","stateMutability":"payable",
   "inputs":[{"name":"data","type":"bytes"},{"name":"salt","type":"bytes32"}],
   "outputs":[{"name":"","type":"address"}]}
]`

const kernelABIJSON = `[
  {"name":"initialize","type":"function","stateMutability":"nonpayable",
   "inputs":[
     {"name":"_rootValidator","type":"bytes21"},
     {"name":"hook","type":"address"},
     {"name":"validatorData","type":"bytes"},
     {"name":"hookData","type":"bytes"},
     {"name":"initConfig","type":"bytes[]"}],
   "outputs":[]},
  {"name":"execute","type":"function","stateMutability":"payable",
   "inputs":[
     {"name":"execMode","type":"bytes32"},
     {"name":"executionCalldata","type":"bytes"}],
   "outputs":[]}
]`

const entryPointABIJSON = `[
  {"name":"getNonce","type":"function","stateMutability":"view",
   "inputs":[
     {"name":"sender","type":"address"},
     {"name":"key","type":"uint192"}],
   "outputs":[{"name":"nonce","type":"uint256"}]}
]`

var (
	factoryABI    abi.ABI
	kernelABI     abi.ABI
	entryPointABI abi.ABI
)

func init() {
	var err error
	if factoryABI, err = abi.JSON(strings.NewReader(factoryABIJSON)); err != nil {
		panic(err)
	}
	if kernelABI, err = abi.JSON(strings.NewReader(kernelABIJSON)); err != nil {
		panic(err)
	}
	if entryPointABI, err = abi.JSON(strings.NewReader(entryPointABIJSON)); err != nil {
		panic(err)
	}
}

// Account is the static descriptor of one Kernel smart account: the owner
// credential's address, the validator wiring and the account index. The
// derived contract address is a pure function of these fields.
type Account struct {
	Owner      common.Address
	Index      *big.Int
	EntryPoint common.Address
	Factory    common.Address
	Validator  common.Address
}

// NewAccount describes the account at the given index owned by owner, with
// the standard v0.7 entry point, factory and ECDSA root validator.
func NewAccount(owner common.Address, index *big.Int) *Account {
	if index == nil {
		index = new(big.Int)
	}
	return &Account{
		Owner:      owner,
		Index:      new(big.Int).Set(index),
		EntryPoint: EntryPointAddress,
		Factory:    FactoryAddress,
		Validator:  ECDSAValidatorAddress,
	}
}

// rootValidatorID is the 21-byte validation id: module type ++ module address.
func (a *Account) rootValidatorID() [21]byte {
	var id [21]byte
	id[0] = validatorIDType
	copy(id[1:], a.Validator.Bytes())
	return id
}

// InitData encodes the initialize call installing the ECDSA validator as the
// sole root validator, with no hook and the owner address as validator data.
func (a *Account) InitData() ([]byte, error) {
	return kernelABI.Pack(
		"initialize",
		a.rootValidatorID(),
		common.Address{},
		a.Owner.Bytes(),
		[]byte{},
		[][]byte{},
	)
}

// Salt is the CREATE2 salt slot: the account index as a 32-byte word, so the
// same owner can hold independent accounts at distinct indexes.
func (a *Account) Salt() [32]byte {
	var salt [32]byte
	a.Index.FillBytes(salt[:])
	return salt
}

// FactoryData encodes the createAccount call used as user-operation factory
// data when the account is not yet deployed.
func (a *Account) FactoryData() ([]byte, error) {
	initData, err := a.InitData()
	if err != nil {
		return nil, err
	}
	return factoryABI.Pack("createAccount", initData, a.Salt())
}

// GetNonceCallData encodes the entry point getNonce read for the account
// deployed (or to be deployed) at sender, on the default nonce key.
func GetNonceCallData(sender common.Address) ([]byte, error) {
	return entryPointABI.Pack("getNonce", sender, new(big.Int))
}

// UnpackNonce decodes the entry point getNonce response.
func UnpackNonce(output []byte) (*big.Int, error) {
	values, err := entryPointABI.Unpack("getNonce", output)
	if err != nil {
		return nil, err
	}
	return values[0].(*big.Int), nil
}

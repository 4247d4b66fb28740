package kernel

import (
	"context"
	"errors"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var testOwner = common.HexToAddress("0x2e988A386a799F506693793c6A5AF6B54dfAaBfB")

// fakeReader answers getAddress calls with an address derived from the call
// bytes, so distinct derivation inputs map to distinct addresses.
type fakeReader struct {
	calls int
	err   error
}

func (r *fakeReader) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return new(big.Int), nil
}

func (r *fakeReader) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return nil, nil
}

func (r *fakeReader) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (r *fakeReader) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	digest := crypto.Keccak256(msg.Data)
	return common.LeftPadBytes(digest[12:], 32), nil
}

func TestAccountAddressDeterministic(t *testing.T) {
	reader := &fakeReader{}
	account := NewAccount(testOwner, big.NewInt(0))

	first, err := account.Address(context.Background(), reader)
	require.NoError(t, err)
	require.NotEqual(t, common.Address{}, first)
	require.Equal(t, 1, reader.calls)

	// Same inputs, same address, regardless of deployment state.
	second, err := account.Address(context.Background(), reader)
	require.NoError(t, err)
	require.Equal(t, first, second)

	// A different owner or index derives a different address.
	otherOwner, err := NewAccount(common.HexToAddress("0x66C0AeE8A403Ec8C07bCB3cc13b96a1Ca4f93Cb0"), big.NewInt(0)).Address(context.Background(), reader)
	require.NoError(t, err)
	require.NotEqual(t, first, otherOwner)

	otherIndex, err := NewAccount(testOwner, big.NewInt(1)).Address(context.Background(), reader)
	require.NoError(t, err)
	require.NotEqual(t, first, otherIndex)
}

func TestAccountAddressPropagatesNetworkError(t *testing.T) {
	reader := &fakeReader{err: errors.New("connection refused")}
	account := NewAccount(testOwner, nil)

	_, err := account.Address(context.Background(), reader)
	require.Error(t, err)
}

func TestAccountInitData(t *testing.T) {
	account := NewAccount(testOwner, nil)

	initData, err := account.InitData()
	require.NoError(t, err)

	// initialize selector followed by the 21-byte root validator id.
	sel := crypto.Keccak256([]byte("initialize(bytes21,address,bytes,bytes,bytes[])"))[:4]
	require.Equal(t, sel, initData[:4])

	id := account.rootValidatorID()
	require.Equal(t, byte(validatorIDType), id[0])
	require.Equal(t, ECDSAValidatorAddress.Bytes(), id[1:21])
}

func TestAccountSalt(t *testing.T) {
	zero := NewAccount(testOwner, big.NewInt(0)).Salt()
	require.Equal(t, [32]byte{}, zero)

	one := NewAccount(testOwner, big.NewInt(1)).Salt()
	require.Equal(t, byte(1), one[31])
}

func TestGetNonceCallData(t *testing.T) {
	data, err := GetNonceCallData(testOwner)
	require.NoError(t, err)

	sel := crypto.Keccak256([]byte("getNonce(address,uint192)"))[:4]
	require.Equal(t, sel, data[:4])

	nonce, err := UnpackNonce(common.LeftPadBytes(big.NewInt(42).Bytes(), 32))
	require.NoError(t, err)
	require.Zero(t, nonce.Cmp(big.NewInt(42)))
}

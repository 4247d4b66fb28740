package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestPolygonAmoy(t *testing.T) {
	n := PolygonAmoy("my-project")

	require.Equal(t, int64(80002), n.ChainID.Int64())
	require.Equal(t, "https://rpc.zerodev.app/api/v3/my-project/chain/80002", n.RPCURL)
	require.Equal(t, n.RPCURL, n.BundlerURL)
	require.True(t, n.Testnet)
	require.Equal(t, 18, n.Currency.Decimals)
}

func TestExplorerURLs(t *testing.T) {
	n := PolygonAmoy("p")
	hash := common.HexToHash("0x7b7dca9f9a9a383c1c057140dcb2a4d340e2db1fc4f36dcd517a7e85d638b4c3")
	addr := common.HexToAddress("0xD464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8")

	require.Equal(t, "https://www.oklink.com/amoy/tx/"+hash.Hex(), n.TxURL(hash))
	require.Equal(t, "https://www.oklink.com/amoy/address/"+addr.Hex(), n.AddressURL(addr))
}

func TestFormatNative(t *testing.T) {
	n := PolygonAmoy("p")

	tests := []struct {
		in   *big.Int
		want string
	}{
		{big.NewInt(0), "0"},
		{big.NewInt(1_000_000_000_000_000_000), "1"},
		{big.NewInt(1_500_000_000_000_000_000), "1.5"},
		{big.NewInt(1_000_000_000_000_000), "0.001"},
		{big.NewInt(1), "0.000000000000000001"},
		{nil, "0"},
	}

	for _, tt := range tests {
		if got := n.FormatNative(tt.in); got != tt.want {
			t.Errorf("FormatNative(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

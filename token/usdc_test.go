package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestParseUSDC(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"1.5", 1_500_000},
		{"1.0", 1_000_000},
		{"1", 1_000_000},
		{"0", 0},
		{"0.000001", 1},
		{"0.000500", 500},
		{".5", 500_000},
		{"1000", 1_000_000_000},
		{"12.345678", 12_345_678},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseUSDC(tt.in)
			require.NoError(t, err)
			require.Zero(t, got.Cmp(big.NewInt(tt.want)), "ParseUSDC(%q) = %s", tt.in, got)
		})
	}
}

func TestParseUSDCRejects(t *testing.T) {
	for _, in := range []string{"", "-1", "abc", "1.2345678", "1.2.3", "1.", "0x10", "1e6"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseUSDC(in); err == nil {
				t.Errorf("ParseUSDC(%q) expected an error", in)
			}
		})
	}
}

func TestFormatUSDC(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{1_500_000, "1.500000"},
		{1_000_000, "1.000000"},
		{500, "0.000500"},
		{0, "0.000000"},
		{12_345_678, "12.345678"},
	}

	for _, tt := range tests {
		if got := FormatUSDC(big.NewInt(tt.in)); got != tt.want {
			t.Errorf("FormatUSDC(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := FormatUSDC(nil); got != "0.000000" {
		t.Errorf("FormatUSDC(nil) = %q, want 0.000000", got)
	}
}

// Parse then format restores the input padded to 6 decimals.
func TestAmountRoundTrip(t *testing.T) {
	for in, padded := range map[string]string{
		"1.5":      "1.500000",
		"0.000500": "0.000500",
		"1000":     "1000.000000",
		"0.1":      "0.100000",
	} {
		v, err := ParseUSDC(in)
		require.NoError(t, err)
		require.Equal(t, padded, FormatUSDC(v))
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"checksummed", "0xD464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8", true},
		{"all lower", "0xd464cc7367a7a39eb4b1e6643cda262b0b0cfda8", true},
		{"all upper hex", "0xD464CC7367A7A39EB4B1E6643CDA262B0B0CFDA8", true},
		{"bad checksum", "0xd464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8", false},
		{"too short", "0xD464CC7367a7A39eb4b1E6643CDa262B0B0Cfd", false},
		{"too long", "0xD464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8ff", false},
		{"bad characters", "0xZZ64CC7367a7A39eb4b1E6643CDa262B0B0CfdA8", false},
		{"no prefix", "D464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8", true},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidAddress(tt.in); got != tt.want {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCallDataBuilders(t *testing.T) {
	usdc := New(common.HexToAddress("0xD464CC7367a7A39eb4b1E6643CDa262B0B0CfdA8"), nil)
	spender := common.HexToAddress("0x2e988A386a799F506693793c6A5AF6B54dfAaBfB")
	amount := big.NewInt(1_000_000)

	approve, err := usdc.ApproveCallData(spender, amount)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256([]byte("approve(address,uint256)"))[:4], approve[:4])
	require.Len(t, approve, 4+64)
	require.Zero(t, new(big.Int).SetBytes(approve[36:]).Cmp(amount))

	transfer, err := usdc.TransferCallData(spender, amount)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256([]byte("transfer(address,uint256)"))[:4], transfer[:4])

	mint, err := usdc.MintCallData(amount)
	require.NoError(t, err)
	require.Equal(t, crypto.Keccak256([]byte("mint(uint256)"))[:4], mint[:4])
	require.Len(t, mint, 4+32)
}

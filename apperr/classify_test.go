package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode Code
	}{
		{"insufficient funds", "err: insufficient funds for gas * price + value", CodeInsufficientBalance},
		{"insufficient balance", "Insufficient Balance to cover value", CodeInsufficientBalance},
		{"simulation failed", "UserOperation simulation failed at validation", CodeSimulationFailed},
		{"userop reverted", "UserOperation reverted during execution", CodeSimulationFailed},
		{"execution reverted", "execution reverted: ERC20: transfer amount exceeds balance", CodeSimulationFailed},
		{"user rejected", "user rejected the request", CodeUserRejected},
		{"user denied", "MetaMask Tx Signature: User denied transaction signature", CodeUserRejected},
		{"gas estimation", "gas estimation failed: AA21 didn't pay prefund", CodeGasEstimation},
		{"bundler error", "bundler error: invalid chain", CodeBundler},
		{"paymaster", "paymaster policy does not cover this operation", CodeBundler},
		{"connection refused", "dial tcp 127.0.0.1:8545: connect: connection refused", CodeNetwork},
		{"no such host", "dial tcp: lookup rpc.invalid: no such host", CodeNetwork},
		{"timeout", "request timeout after 30s", CodeNetwork},
		{"deadline", "context deadline exceeded", CodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("wallet.Send", errors.New(tt.raw))
			require.Error(t, err)

			code, ok := CodeOf(err)
			require.True(t, ok)
			require.Equal(t, tt.wantCode, code)
		})
	}
}

func TestClassifyPassThrough(t *testing.T) {
	raw := errors.New("something nobody has seen before")
	err := Classify("wallet.Send", raw)

	// Unmatched failures keep their original message and identity.
	require.Same(t, raw, err)
	_, ok := CodeOf(err)
	require.False(t, ok)
}

func TestClassifyKeepsExistingCode(t *testing.T) {
	inner := New(CodeNotAuthenticated, "auth.Signer", "no active session")
	err := Classify("wallet.Send", inner)

	code, ok := CodeOf(err)
	require.True(t, ok)
	require.Equal(t, CodeNotAuthenticated, code)
}

func TestClassifyNil(t *testing.T) {
	if err := Classify("wallet.Send", nil); err != nil {
		t.Errorf("Classify(nil) = %v, want nil", err)
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(CodeNetwork, "op", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeNetwork, "chain.BalanceAt", cause)
	require.True(t, errors.Is(err, cause))
	require.Contains(t, err.Error(), "NETWORK_ERROR")
	require.Contains(t, err.Error(), "chain.BalanceAt")
}

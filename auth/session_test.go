package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/amoypay/gasless-wallet/apperr"
)

func newTestSigner(t *testing.T) *ECDSASigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer, err := NewECDSASigner(key)
	require.NoError(t, err)
	return signer
}

func TestSessionLifecycle(t *testing.T) {
	signer := newTestSigner(t)
	session := NewSession(&StaticProvider{
		Signer: signer,
		Info:   UserInfo{Email: "user@example.com"},
	})

	var connects, disconnects int
	session.OnConnect(func(Signer) { connects++ })
	session.OnDisconnect(func() { disconnects++ })

	require.False(t, session.Connected())

	_, err := session.Signer()
	code, ok := apperr.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, apperr.CodeNotAuthenticated, code)

	require.NoError(t, session.Connect(context.Background()))
	require.True(t, session.Connected())
	require.Equal(t, 1, connects)

	got, err := session.Signer()
	require.NoError(t, err)
	require.Equal(t, signer.Address(), got.Address())

	info, err := session.UserInfo()
	require.NoError(t, err)
	require.Equal(t, "user@example.com", info.Email)

	// Reconnecting while connected does not fire observers again.
	require.NoError(t, session.Connect(context.Background()))
	require.Equal(t, 1, connects)

	require.NoError(t, session.Disconnect(context.Background()))
	require.False(t, session.Connected())
	require.Equal(t, 1, disconnects)

	_, err = session.Signer()
	require.Error(t, err)
}

func TestSessionConnectError(t *testing.T) {
	session := NewSession(&failingProvider{})
	err := session.Connect(context.Background())
	require.Error(t, err)
	require.False(t, session.Connected())
}

type failingProvider struct{}

func (p *failingProvider) Connect(context.Context) (Signer, UserInfo, error) {
	return nil, UserInfo{}, errors.New("login window closed")
}

func (p *failingProvider) Disconnect(context.Context) error { return nil }

func TestSessionIDsDistinct(t *testing.T) {
	a := NewSession(&StaticProvider{})
	b := NewSession(&StaticProvider{})
	if a.ID() == b.ID() {
		t.Errorf("expected distinct session ids, got %s twice", a.ID())
	}
}

func TestECDSASignerSignature(t *testing.T) {
	signer := newTestSigner(t)

	hash := crypto.Keccak256Hash([]byte("user operation"))
	sig, err := signer.SignUserOperationHash(hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	require.True(t, sig[64] == 27 || sig[64] == 28)

	// Same hash, same credential, same signature.
	again, err := signer.SignUserOperationHash(hash)
	require.NoError(t, err)
	require.Equal(t, sig, again)
}

package auth

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ECDSASigner signs user-operation hashes with a secp256k1 key, producing the
// 65-byte signature the ECDSA validator expects. Signatures are made over the
// EIP-191 personal-message envelope of the 32-byte hash.
type ECDSASigner struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func NewECDSASigner(key *ecdsa.PrivateKey) (*ECDSASigner, error) {
	if key == nil {
		return nil, errors.New("nil private key")
	}
	return &ECDSASigner{
		key:  key,
		addr: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// NewECDSASignerFromHex builds a signer from a hex-encoded private key, with
// or without the 0x prefix.
func NewECDSASignerFromHex(hexKey string) (*ECDSASigner, error) {
	if len(hexKey) >= 2 && hexKey[0] == '0' && (hexKey[1] == 'x' || hexKey[1] == 'X') {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}
	return NewECDSASigner(key)
}

func (s *ECDSASigner) Address() common.Address { return s.addr }

func (s *ECDSASigner) SignUserOperationHash(hash common.Hash) ([]byte, error) {
	digest := accounts.TextHash(hash.Bytes())

	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, err
	}
	// Transform V from 0/1 to the 27/28 form validators check.
	sig[64] += 27
	return sig, nil
}

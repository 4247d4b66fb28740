// Package auth adapts the external social-login capability into an explicit
// session context. A Session owns the signing credential's lifetime: the
// credential exists from a successful Connect until Disconnect, and every
// write path in the module asks the session for it.
package auth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// UserInfo is the identity information the login provider reports.
type UserInfo struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Signer is the signing credential a connected provider yields. It authorizes
// user operations on behalf of the smart wallet.
type Signer interface {
	Address() common.Address
	SignUserOperationHash(hash common.Hash) ([]byte, error)
}

// Provider is the external authentication capability. Implementations wrap
// a social-login SDK, a hardware key, or a raw private key.
type Provider interface {
	Connect(ctx context.Context) (Signer, UserInfo, error)
	Disconnect(ctx context.Context) error
}

// StaticProvider yields a fixed signer. It is the shape used for key-file
// sessions and in tests.
type StaticProvider struct {
	Signer Signer
	Info   UserInfo
}

func (p *StaticProvider) Connect(ctx context.Context) (Signer, UserInfo, error) {
	return p.Signer, p.Info, nil
}

func (p *StaticProvider) Disconnect(ctx context.Context) error { return nil }

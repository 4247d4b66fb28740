// Package wallet is the gasless transaction orchestration core. It binds a
// session credential to a Kernel smart account, sponsors every operation
// through the configured paymaster, submits through the bundler and waits
// for on-chain confirmation. Callers never need native currency for gas.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/auth"
	"github.com/amoypay/gasless-wallet/bundler"
	"github.com/amoypay/gasless-wallet/chain"
	"github.com/amoypay/gasless-wallet/config"
	"github.com/amoypay/gasless-wallet/kernel"
	"github.com/amoypay/gasless-wallet/token"
	"github.com/amoypay/gasless-wallet/userop"
)

// Bundler is the submission endpoint the executor needs.
type Bundler interface {
	SendUserOperation(ctx context.Context, op *userop.UserOperation) (common.Hash, error)
	WaitForUserOperationReceipt(ctx context.Context, opHash common.Hash) (*bundler.Receipt, error)
	GetUserOperationGasPrice(ctx context.Context) (*bundler.GasPriceResult, error)
}

// Paymaster is the sponsorship endpoint.
type Paymaster interface {
	SponsorUserOperation(ctx context.Context, op *userop.UserOperation) (*bundler.SponsorResult, error)
}

// Service exposes the wallet operations over one session and one network.
// Concurrent invocations are independent; the service adds no serialization
// between overlapping submissions from the same wallet.
type Service struct {
	network   *chain.Network
	session   *auth.Session
	reader    chain.Reader
	bundler   Bundler
	paymaster Paymaster
	usdc      *token.Token
}

// New dials the configured endpoints and builds a service bound to session.
func New(cfg *config.Config, session *auth.Session) (*Service, error) {
	if err := userop.RegisterValidators(); err != nil {
		return nil, err
	}

	network := cfg.Network()

	reader, err := ethclient.Dial(network.RPCURL)
	if err != nil {
		return nil, apperr.Classify("wallet.New", err)
	}

	// The ZeroDev endpoint serves bundler and paymaster on one URL.
	bundlerRPC, err := rpc.Dial(network.BundlerURL)
	if err != nil {
		return nil, apperr.Classify("wallet.New", err)
	}

	return NewWithBackends(
		network,
		session,
		reader,
		bundler.NewClient(bundlerRPC, kernel.EntryPointAddress),
		bundler.NewPaymasterClient(bundlerRPC, kernel.EntryPointAddress, network.ChainID),
		cfg.TokenAddress(),
	), nil
}

// NewWithBackends wires explicit backends; tests inject fakes here.
func NewWithBackends(network *chain.Network, session *auth.Session, reader chain.Reader, b Bundler, p Paymaster, usdcAddr common.Address) *Service {
	return &Service{
		network:   network,
		session:   session,
		reader:    reader,
		bundler:   b,
		paymaster: p,
		usdc:      token.New(usdcAddr, reader),
	}
}

func (s *Service) Network() *chain.Network { return s.network }
func (s *Service) Session() *auth.Session { return s.session }
func (s *Service) Token() *token.Token    { return s.usdc }

// EoaAddress returns the signing credential's own address.
func (s *Service) EoaAddress() (common.Address, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return common.Address{}, err
	}
	return signer.Address(), nil
}

// SmartWalletAddress derives the smart wallet's counterfactual address for
// the active credential at account index 0.
func (s *Service) SmartWalletAddress(ctx context.Context) (common.Address, error) {
	owner, err := s.EoaAddress()
	if err != nil {
		return common.Address{}, err
	}
	return kernel.NewAccount(owner, big.NewInt(0)).Address(ctx, s.reader)
}

// SmartWalletBalance reads the smart wallet's native balance in base units.
func (s *Service) SmartWalletBalance(ctx context.Context) (*big.Int, error) {
	addr, err := s.SmartWalletAddress(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := s.reader.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, apperr.Classify("wallet.SmartWalletBalance", err)
	}
	return balance, nil
}

// TokenBalance reads the smart wallet's USDC balance in base units.
func (s *Service) TokenBalance(ctx context.Context) (*big.Int, error) {
	addr, err := s.SmartWalletAddress(ctx)
	if err != nil {
		return nil, err
	}
	return s.usdc.BalanceOf(ctx, addr)
}

// GasPrice reads the node's current gas price. Diagnostics only; fee choice
// for submissions comes from the bundler.
func (s *Service) GasPrice(ctx context.Context) (*big.Int, error) {
	price, err := s.reader.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperr.Classify("wallet.GasPrice", err)
	}
	return price, nil
}

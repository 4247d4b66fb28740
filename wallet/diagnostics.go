package wallet

import (
	"context"
	"fmt"
	"math/big"
)

// minGasBalance is the native balance below which the setup probe flags the
// wallet (0.001 MATIC). Sponsored operations do not strictly need it, but a
// dry wallet usually signals a misconfigured environment.
var minGasBalance = big.NewInt(1_000_000_000_000_000)

// SetupReport is the result of the environment probe.
type SetupReport struct {
	EoaAddress         string   `json:"eoaAddress"`
	SmartWalletAddress string   `json:"smartWalletAddress"`
	SmartWalletBalance string   `json:"smartWalletBalance"`
	GasPrice           string   `json:"gasPrice"`
	IsReady            bool     `json:"isReady"`
	Issues             []string `json:"issues"`
}

// TestSmartWalletSetup validates the full environment: credential, address
// derivation, balance and gas reads, and client construction. It never
// returns an error; every failure becomes an issue in the report.
func (s *Service) TestSmartWalletSetup(ctx context.Context) *SetupReport {
	report := &SetupReport{
		SmartWalletBalance: "0",
		GasPrice:           "0",
		Issues:             []string{},
	}

	eoa, err := s.EoaAddress()
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("setup test failed: %v", err))
		return report
	}
	report.EoaAddress = eoa.Hex()

	smartWallet, err := s.SmartWalletAddress(ctx)
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("setup test failed: %v", err))
		return report
	}
	report.SmartWalletAddress = smartWallet.Hex()

	balance, err := s.reader.BalanceAt(ctx, smartWallet, nil)
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("setup test failed: %v", err))
		return report
	}
	report.SmartWalletBalance = s.network.FormatNative(balance)

	gasPrice, err := s.GasPrice(ctx)
	if err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("setup test failed: %v", err))
		return report
	}
	report.GasPrice = s.network.FormatNative(gasPrice)

	if balance.Cmp(minGasBalance) < 0 {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"smart wallet balance too low: %s %s, need at least %s %s for unsponsored operations",
			s.network.FormatNative(balance), s.network.Currency.Symbol,
			s.network.FormatNative(minGasBalance), s.network.Currency.Symbol))
	}

	if _, err := s.SmartAccountClient(ctx); err != nil {
		report.Issues = append(report.Issues, fmt.Sprintf("failed to create smart account client: %v", err))
	}

	report.IsReady = len(report.Issues) == 0
	return report
}

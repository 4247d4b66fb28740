// Command gasless is a small operator front end for the wallet service:
// it probes the environment, reads balances and submits sponsored token
// transfers from a key-file session.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/amoypay/gasless-wallet/auth"
	"github.com/amoypay/gasless-wallet/config"
	"github.com/amoypay/gasless-wallet/token"
	"github.com/amoypay/gasless-wallet/wallet"
)

var (
	cfgFile    string
	privateKey string
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gasless",
		Short:         "Sponsored smart-wallet operations on Polygon Amoy",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "path to the configuration file")
	root.PersistentFlags().StringVar(&privateKey, "key", "", "hex private key for the session (or GASLESS_KEY)")

	root.AddCommand(setupCmd(), balanceCmd(), transferCmd(), mintCmd())
	return root
}

// newService builds a connected wallet service from flags and environment.
func newService(ctx context.Context) (*wallet.Service, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	key := privateKey
	if key == "" {
		key = os.Getenv("GASLESS_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("no signing key: pass --key or set GASLESS_KEY")
	}

	signer, err := auth.NewECDSASignerFromHex(key)
	if err != nil {
		return nil, fmt.Errorf("invalid signing key: %w", err)
	}

	session := auth.NewSession(&auth.StaticProvider{Signer: signer})
	if err := session.Connect(ctx); err != nil {
		return nil, err
	}

	return wallet.New(cfg, session)
}

func setupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Probe the smart wallet environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context())
			if err != nil {
				return err
			}

			report := svc.TestSmartWalletSetup(cmd.Context())
			fmt.Printf("EOA:           %s\n", report.EoaAddress)
			fmt.Printf("Smart wallet:  %s\n", report.SmartWalletAddress)
			fmt.Printf("Balance:       %s %s\n", report.SmartWalletBalance, svc.Network().Currency.Symbol)
			fmt.Printf("Gas price:     %s %s\n", report.GasPrice, svc.Network().Currency.Symbol)
			fmt.Printf("Ready:         %v\n", report.IsReady)
			for _, issue := range report.Issues {
				fmt.Printf("  issue: %s\n", issue)
			}
			return nil
		},
	}
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the smart wallet's USDC balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd.Context())
			if err != nil {
				return err
			}

			balance, err := svc.TokenBalance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s USDC\n", token.FormatUSDC(balance))
			return nil
		},
	}
}

func transferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <recipient> <amount>",
		Short: "Send USDC with sponsored gas",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !token.IsValidAddress(args[0]) {
				return fmt.Errorf("invalid recipient address: %s", args[0])
			}

			svc, err := newService(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.TransferTokens(cmd.Context(), common.HexToAddress(args[0]), args[1])
			if err != nil {
				return err
			}
			fmt.Printf("confirmed: %s\n", svc.Network().TxURL(result.Hash))
			return nil
		},
	}
}

func mintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <amount>",
		Short: "Mint test USDC to the smart wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := token.ParseUSDC(args[0])
			if err != nil {
				return err
			}

			svc, err := newService(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.MintTestTokens(cmd.Context(), amount)
			if err != nil {
				return err
			}
			fmt.Printf("confirmed: %s\n", svc.Network().TxURL(result.Hash))
			return nil
		},
	}
}

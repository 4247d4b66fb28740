// Package config loads and validates the module configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/amoypay/gasless-wallet/chain"
)

type Config struct {
	// ProjectID scopes the shared RPC/bundler/paymaster endpoint.
	ProjectID string `mapstructure:"project_id" validate:"required"`
	// Web3AuthClientID identifies the social-login project; only the
	// identity-provider integration reads it.
	Web3AuthClientID string `mapstructure:"web3auth_client_id"`
	// USDCContract is the token contract address on the target network.
	USDCContract string `mapstructure:"usdc_contract" validate:"required,eth_addr"`
	// RPCURL and BundlerURL override the project-derived defaults.
	RPCURL     string `mapstructure:"rpc_url"`
	BundlerURL string `mapstructure:"bundler_url"`
}

// ENV overrides YAML, e.g. GASLESS_PROJECT_ID.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("GASLESS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("eth_addr", func(fl validator.FieldLevel) bool {
		return common.IsHexAddress(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("failed to register validator for eth_addr: %w", err)
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Network builds the immutable network descriptor for this configuration.
func (c *Config) Network() *chain.Network {
	n := chain.PolygonAmoy(c.ProjectID)
	if c.RPCURL != "" {
		n.RPCURL = c.RPCURL
	}
	if c.BundlerURL != "" {
		n.BundlerURL = c.BundlerURL
	}
	return n
}

// TokenAddress returns the configured USDC contract address.
func (c *Config) TokenAddress() common.Address {
	return common.HexToAddress(c.USDCContract)
}

package userop

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Custom validation for Ethereum addresses.
func validEthAddress(fl validator.FieldLevel) bool {
	return common.IsHexAddress(fl.Field().String())
}

// Custom validation for non-negative *big.Int fields.
func validUint(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(*big.Int)
	return ok && v != nil && v.Sign() >= 0
}

// RegisterValidators installs the custom validators on the shared binding
// engine. Call once at startup before validating any structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	// This module's structs carry `validate` tags, not gin's default.
	v.SetTagName("validate")

	if err := v.RegisterValidation("eth_addr", validEthAddress); err != nil {
		return fmt.Errorf("failed to register validator for eth_addr: %w", err)
	}
	if err := v.RegisterValidation("uint", validUint); err != nil {
		return fmt.Errorf("failed to register validator for uint: %w", err)
	}
	return nil
}

// Validate runs struct validation through the shared binding engine.
func Validate(obj any) error {
	return binding.Validator.ValidateStruct(obj)
}

package apperr

import (
	"errors"
	"strings"
)

// classification rules, checked in order against the lowercased raw message.
// The raw strings come from the bundler, paymaster and node endpoints, which
// report failures as free text.
var rules = []struct {
	substr string
	code   Code
	msg    string
}{
	{"insufficient funds", CodeInsufficientBalance, "insufficient funds in smart wallet"},
	{"insufficient balance", CodeInsufficientBalance, "insufficient funds in smart wallet"},
	{"simulation failed", CodeSimulationFailed, "transaction simulation failed - check contract permissions and parameters"},
	{"useroperation reverted", CodeSimulationFailed, "user operation reverted - check gas funding and transaction parameters"},
	{"execution reverted", CodeSimulationFailed, "transaction simulation failed - check contract permissions and parameters"},
	{"user rejected", CodeUserRejected, "transaction was rejected by user"},
	{"user denied", CodeUserRejected, "transaction was rejected by user"},
	{"gas estimation failed", CodeGasEstimation, "gas estimation failed - check the smart wallet balance for gas fees"},
	{"bundler error", CodeBundler, "bundler error - check project configuration and network connectivity"},
	{"paymaster", CodeBundler, "paymaster rejected sponsorship - check project configuration"},
	{"connection refused", CodeNetwork, "network unreachable - check your connection"},
	{"no such host", CodeNetwork, "network unreachable - check your connection"},
	{"timeout", CodeNetwork, "network request timed out - check your connection"},
	{"context deadline exceeded", CodeNetwork, "network request timed out - check your connection"},
}

// Classify remaps a raw failure onto the taxonomy. Errors already carrying a
// code pass through untouched, so inner layers win over the boundary match.
// Failures matching no known pattern also pass through with their original
// message.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	raw := strings.ToLower(err.Error())
	for _, r := range rules {
		if strings.Contains(raw, r.substr) {
			return &AppError{Code: r.code, Op: op, Err: errors.New(r.msg + ": " + err.Error())}
		}
	}
	return err
}

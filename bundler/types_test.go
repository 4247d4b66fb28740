package bundler

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestReceiptUnmarshal(t *testing.T) {
	payload := `{
		"userOpHash": "0x93c06f3f5909cc2b192713ed9bf93e3e1fde4b22fcd2466304fa404f9b80ff90",
		"sender": "0x66C0AeE8A403Ec8C07bCB3cc13b96a1Ca4f93Cb0",
		"nonce": "0x7",
		"success": true,
		"actualGasUsed": "0x2af8",
		"actualGasCost": "0x59682f00",
		"receipt": {
			"transactionHash": "0x7b7dca9f9a9a383c1c057140dcb2a4d340e2db1fc4f36dcd517a7e85d638b4c3",
			"blockHash": "0x35af8b0f3f0a3c0798c496aa5231e8498bdac1a663ea2b1e904cbb9eaf84bf55",
			"blockNumber": "0xa1b2c3",
			"gasUsed": "0x2af8",
			"status": "0x1"
		}
	}`

	var receipt Receipt
	require.NoError(t, json.Unmarshal([]byte(payload), &receipt))

	require.True(t, receipt.Success)
	require.Equal(t, common.HexToAddress("0x66C0AeE8A403Ec8C07bCB3cc13b96a1Ca4f93Cb0"), receipt.Sender)
	require.Equal(t,
		common.HexToHash("0x7b7dca9f9a9a383c1c057140dcb2a4d340e2db1fc4f36dcd517a7e85d638b4c3"),
		receipt.Receipt.TransactionHash)
	require.Zero(t, receipt.ActualGasUsed.ToInt().Cmp(big.NewInt(0x2af8)))
	require.Zero(t, receipt.Receipt.Status.ToInt().Cmp(big.NewInt(1)))
}

func TestGasPriceResultUnmarshal(t *testing.T) {
	payload := `{
		"slow": {"maxFeePerGas": "0x3b9aca00", "maxPriorityFeePerGas": "0x3b9aca00"},
		"standard": {"maxFeePerGas": "0x6fc23ac0", "maxPriorityFeePerGas": "0x59682f00"},
		"fast": {"maxFeePerGas": "0x77359400", "maxPriorityFeePerGas": "0x6fc23ac0"}
	}`

	var result GasPriceResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))
	require.Zero(t, result.Standard.MaxFeePerGas.ToInt().Cmp(big.NewInt(0x6fc23ac0)))
	require.Zero(t, result.Standard.MaxPriorityFeePerGas.ToInt().Cmp(big.NewInt(0x59682f00)))
}

func TestSponsorResultUnmarshal(t *testing.T) {
	payload := `{
		"paymaster": "0x0000000000000039cd5e8aE05257CE51C473ddd1",
		"paymasterData": "0x01ff",
		"paymasterVerificationGasLimit": "0x4e20",
		"paymasterPostOpGasLimit": "0x2710",
		"callGasLimit": "0x30d40",
		"verificationGasLimit": "0x249f0",
		"preVerificationGas": "0xc350"
	}`

	var result SponsorResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))
	require.Equal(t, common.HexToAddress("0x0000000000000039cd5e8aE05257CE51C473ddd1"), result.Paymaster)
	require.Equal(t, []byte{0x01, 0xff}, []byte(result.PaymasterData))
	require.Zero(t, result.CallGasLimit.ToInt().Cmp(big.NewInt(0x30d40)))
}

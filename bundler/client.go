package bundler

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/amoypay/gasless-wallet/apperr"
	"github.com/amoypay/gasless-wallet/userop"
)

// receiptPollInterval paces receipt lookups while the bundler has not yet
// included the operation.
const receiptPollInterval = 2 * time.Second

// Client submits user operations to a bundler and tracks them to
// confirmation.
type Client struct {
	rpc        *rpc.Client
	entryPoint common.Address
}

func NewClient(rpcClient *rpc.Client, entryPoint common.Address) *Client {
	return &Client{rpc: rpcClient, entryPoint: entryPoint}
}

// Dial connects to the bundler endpoint.
func Dial(url string, entryPoint common.Address) (*Client, error) {
	rpcClient, err := rpc.Dial(url)
	if err != nil {
		return nil, apperr.Classify("bundler.Dial", err)
	}
	return NewClient(rpcClient, entryPoint), nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

// SendUserOperation submits a signed operation and returns its operation
// hash. The hash identifies the operation at the bundler; it is not the
// on-chain transaction hash.
func (c *Client) SendUserOperation(ctx context.Context, op *userop.UserOperation) (common.Hash, error) {
	var result common.Hash
	err := c.rpc.CallContext(ctx, &result, "eth_sendUserOperation", op, c.entryPoint)
	if err != nil {
		return common.Hash{}, apperr.Classify("bundler.SendUserOperation", err)
	}
	return result, nil
}

// GetUserOperationReceipt looks up the receipt once. A nil receipt with nil
// error means the operation is still pending.
func (c *Client) GetUserOperationReceipt(ctx context.Context, opHash common.Hash) (*Receipt, error) {
	var receipt *Receipt
	err := c.rpc.CallContext(ctx, &receipt, "eth_getUserOperationReceipt", opHash)
	if err != nil {
		return nil, apperr.Classify("bundler.GetUserOperationReceipt", err)
	}
	return receipt, nil
}

// WaitForUserOperationReceipt polls until the bundler reports a receipt or
// the context ends. The wait itself has no internal deadline; callers bound
// it through ctx.
func (c *Client) WaitForUserOperationReceipt(ctx context.Context, opHash common.Hash) (*Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.GetUserOperationReceipt(ctx, opHash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, apperr.Classify("bundler.WaitForUserOperationReceipt", ctx.Err())
		case <-ticker.C:
		}
	}
}

// GetUserOperationGasPrice queries the bundler's fee recommendation instead
// of using local gas-price heuristics.
func (c *Client) GetUserOperationGasPrice(ctx context.Context) (*GasPriceResult, error) {
	var result GasPriceResult
	err := c.rpc.CallContext(ctx, &result, "zd_getUserOperationGasPrice")
	if err != nil {
		return nil, apperr.Classify("bundler.GetUserOperationGasPrice", err)
	}
	return &result, nil
}

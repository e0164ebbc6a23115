package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"feeScope/internal/model"
)

// Client wraps go-ethereum RPC for block resolution. It is optional: the
// fee pipeline itself only talks to the subgraph.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// LatestBlockNumber returns the latest block number.
func (c *Client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return c.ethClient.BlockNumber(ctx)
}

// EnsureBlock verifies that the chain has a header for the given block.
func (c *Client) EnsureBlock(ctx context.Context, number uint64) error {
	header, err := c.ethClient.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return fmt.Errorf("%w: block %d: %v", model.ErrDataUnavailable, number, err)
	}
	if header == nil {
		return fmt.Errorf("%w: block %d has no header", model.ErrDataUnavailable, number)
	}
	return nil
}

package eth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NethermindEth/blockstats/stats"
	"github.com/NethermindEth/blockstats/utils"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
)

var (
	ErrTransport     = errors.New("ethereum node unreachable")
	ErrJSONDecode    = errors.New("invalid json in node response")
	ErrBlockNotFound = errors.New("block not found")
)

//go:generate mockgen -destination=./mocks/mock_client.go -package=mocks github.com/NethermindEth/blockstats/eth Client
type Client interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number uint64) (stats.RawBlock, error)
	Close()
}

// RPCClient talks to an Ethereum execution node over JSON-RPC.
type RPCClient struct {
	client   *rpc.Client
	timeout  time.Duration
	listener EventListener
}

var _ Client = (*RPCClient)(nil)

// NewRPCClient dials url. A zero timeout leaves requests bounded only by the
// caller's context.
func NewRPCClient(ctx context.Context, url string, timeout time.Duration) (*RPCClient, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(ErrTransport, "dial %s: %v", url, err)
	}
	return &RPCClient{
		client:   client,
		timeout:  timeout,
		listener: &SelectiveListener{},
	}, nil
}

func (c *RPCClient) WithListener(listener EventListener) *RPCClient {
	c.listener = listener
	return c
}

// WithUserAgent sets the User-Agent header of HTTP requests. It has no effect
// on WebSocket connections.
func (c *RPCClient) WithUserAgent(ua string) *RPCClient {
	c.client.SetHeader("User-Agent", ua)
	return c
}

func (c *RPCClient) call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var result json.RawMessage
	start := time.Now()
	err := c.client.CallContext(ctx, &result, method, args...)
	c.listener.OnCall(method, time.Since(start), err)
	if err != nil {
		if errors.Is(err, rpc.ErrNoResult) {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrTransport, "%s: %v", method, err)
	}
	return result, nil
}

// BlockNumber returns the number of the most recent block.
func (c *RPCClient) BlockNumber(ctx context.Context) (uint64, error) {
	raw, err := c.call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}

	var result any
	if err = json.Unmarshal(raw, &result); err != nil {
		return 0, errors.Wrapf(ErrJSONDecode, "eth_blockNumber: %v", err)
	}

	number, err := utils.HexToUint64(result)
	if err != nil {
		return 0, errors.WithMessage(err, "eth_blockNumber")
	}
	return number, nil
}

// BlockByNumber fetches a block with full transaction objects.
func (c *RPCClient) BlockByNumber(ctx context.Context, number uint64) (stats.RawBlock, error) {
	raw, err := c.call(ctx, "eth_getBlockByNumber", hexutil.EncodeUint64(number), true)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.Wrapf(ErrBlockNotFound, "block %d", number)
	}

	var block stats.RawBlock
	if err = json.Unmarshal(raw, &block); err != nil {
		return nil, errors.Wrapf(ErrJSONDecode, "eth_getBlockByNumber: %v", err)
	}
	if block == nil {
		return nil, errors.Wrapf(ErrBlockNotFound, "block %d", number)
	}
	return block, nil
}

func (c *RPCClient) Close() {
	c.client.Close()
}

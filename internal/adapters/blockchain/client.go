package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// Backend is the subset of an Ethereum client used by the adapters.
// *ethclient.Client and the simulated backend's client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainStateReader
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client connects to the configured network on first use
type Client struct {
	network *config.Network
	dial    func(ctx context.Context, url string) (Backend, error)
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
	chainID *big.Int
	closer  func()
}

// NewClient creates a lazily connected client for the selected network
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	return &Client{
		network: cfg.Network,
		log:     log,
		dial: func(ctx context.Context, url string) (Backend, error) {
			client, err := ethclient.DialContext(ctx, url)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}

// NewClientFromBackend wraps an already connected backend
func NewClientFromBackend(network *config.Network, backend Backend, log *slog.Logger) *Client {
	return &Client{
		network: network,
		log:     log,
		dial: func(context.Context, string) (Backend, error) {
			return backend, nil
		},
	}
}

// Connect dials the RPC endpoint and checks its chain ID against the configuration
func (c *Client) Connect(ctx context.Context) (Backend, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.backend != nil {
		return c.backend, c.chainID, nil
	}
	if c.network == nil || c.network.RPCURL == "" {
		return nil, nil, fmt.Errorf("no RPC URL configured for network")
	}

	backend, err := c.dial(ctx, c.network.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	networkChainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID in the configuration accepts whatever the node reports
	if c.network.ChainID != 0 && networkChainID.Uint64() != c.network.ChainID {
		return nil, nil, fmt.Errorf("chain ID mismatch: expected %d, got %d", c.network.ChainID, networkChainID.Uint64())
	}

	c.log.Debug("connected to network",
		slog.String("network", c.network.Name),
		slog.Uint64("chain_id", networkChainID.Uint64()),
	)

	c.backend = backend
	c.chainID = networkChainID
	if closer, ok := backend.(interface{ Close() }); ok {
		c.closer = closer.Close
	}
	return c.backend, c.chainID, nil
}

// Close releases the underlying connection, if any
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closer != nil {
		c.closer()
		c.closer = nil
	}
	c.backend = nil
}

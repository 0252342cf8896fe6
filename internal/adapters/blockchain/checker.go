package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// CheckerAdapter looks up deployed bytecode
type CheckerAdapter struct {
	client *Client
}

// NewCheckerAdapter creates a new blockchain checker adapter
func NewCheckerAdapter(client *Client) *CheckerAdapter {
	return &CheckerAdapter{client: client}
}

// HasCode checks if a contract exists at the given address
func (c *CheckerAdapter) HasCode(ctx context.Context, address common.Address) (bool, error) {
	backend, _, err := c.client.Connect(ctx)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check code: %w", err)
	}

	return len(code) > 0, nil
}

// Ensure the adapter implements the interface
var _ usecase.CodeChecker = (*CheckerAdapter)(nil)

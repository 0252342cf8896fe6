package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
)

// waitSuccessful blocks until tx is mined and fails on a reverted receipt
func waitSuccessful(ctx context.Context, backend Backend, from common.Address, tx *types.Transaction, log *slog.Logger) (*types.Receipt, error) {
	log.Debug("waiting for transaction", slog.String("tx", tx.Hash().Hex()))

	receipt, err := bind.WaitMined(ctx, backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		reason := revertReason(ctx, backend, from, tx, receipt)
		if reason != "" {
			return receipt, fmt.Errorf("%w: tx %s: %s", domain.ErrTransactionReverted, tx.Hash().Hex(), reason)
		}
		return receipt, fmt.Errorf("%w: tx %s", domain.ErrTransactionReverted, tx.Hash().Hex())
	}

	log.Debug("transaction mined",
		slog.String("tx", tx.Hash().Hex()),
		slog.Uint64("block", receipt.BlockNumber.Uint64()),
		slog.Uint64("gas_used", receipt.GasUsed),
	)
	return receipt, nil
}

// revertReason replays a failed transaction as a call in its block
func revertReason(ctx context.Context, backend Backend, from common.Address, tx *types.Transaction, receipt *types.Receipt) string {
	msg := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
		Value:    tx.Value(),
		Data:     tx.Data(),
	}
	_, err := backend.CallContract(ctx, msg, receipt.BlockNumber)
	if err == nil {
		return ""
	}
	return err.Error()
}
